package services

import (
	"fmt"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// Insight rule thresholds.
const (
	dominantTypeShare     = 60.0
	lowConfidenceShare    = 0.2
	recommendedMinCorpora = 5
)

// Fixed insight messages.
const (
	msgSingleDocument  = "ドキュメントが1件のみのため、TF-IDFによる重要度評価は参考値として扱ってください。"
	msgAddDocuments    = "より信頼性の高い分析のため、5件以上のドキュメントで再分析してください。"
	msgDictionary      = "ドメイン固有の用語辞書を追加し、固有表現の抽出精度を向上させてください。"
	msgPeriodicReanaly = "コーパスの更新に合わせて定期的に再分析を実施し、傾向の変化を確認してください。"
)

// GenerateInsights evaluates the insight rules in a fixed order.
// Rules are independent; each may or may not fire.
func GenerateInsights(stats *domain.CorpusStatistics) *domain.InsightSet {
	insights := &domain.InsightSet{
		Observations:    []string{},
		Recommendations: []string{},
	}
	if stats == nil {
		stats = &domain.CorpusStatistics{}
	}

	if stats.TotalDocuments == 1 {
		insights.Observations = append(insights.Observations, msgSingleDocument)
	}

	if t, share, ok := stats.DominantType(); ok && share > dominantTypeShare {
		insights.Observations = append(insights.Observations,
			fmt.Sprintf("固有表現タイプ「%s」が全体の%.1f%%を占めており、分布に偏りがあります。", t, share))
	}

	lowCount := 0
	if q := stats.Quality; q != nil {
		lowCount = q.LowConfidenceCount
		switch {
		case q.Mean > HighConfidenceThreshold:
			insights.Observations = append(insights.Observations,
				fmt.Sprintf("平均信頼度は%.3fで、抽出品質は良好です。", q.Mean))
		case q.Mean < LowConfidenceThreshold:
			insights.Observations = append(insights.Observations,
				fmt.Sprintf("平均信頼度が%.3fと低く、抽出結果の精度に注意が必要です。", q.Mean))
		}
		if stats.TotalEntities > 0 && float64(lowCount) > float64(stats.TotalEntities)*lowConfidenceShare {
			insights.Observations = append(insights.Observations,
				fmt.Sprintf("低信頼度(0.7未満)の固有表現が%d件あり、全体の20%%を超えています。手動での確認を推奨します。", lowCount))
		}
	}

	if r := stats.Relationships; r != nil && len(r.Pairs) > 0 {
		p := r.Pairs[0]
		insights.Observations = append(insights.Observations,
			fmt.Sprintf("最も強い共起関係は「%s」と「%s」です(%d件のドキュメントで共起)。", p.WordA, p.WordB, p.Count))
	}

	if stats.TotalDocuments < recommendedMinCorpora {
		insights.Recommendations = append(insights.Recommendations, msgAddDocuments)
	}
	if lowCount > 0 {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("低信頼度の固有表現%d件を手動で確認してください。", lowCount))
	}
	insights.Recommendations = append(insights.Recommendations, msgDictionary, msgPeriodicReanaly)

	return insights
}
