package filesystem

import "github.com/custodia-labs/nerstat/internal/core/domain"

// DemoPath is the input path that selects the built-in sample corpus.
// A real file or directory named "demo" takes precedence.
const DemoPath = "demo"

// demoTexts are short Japanese news-style passages covering every entity type.
var demoTexts = []struct {
	name string
	text string
}{
	{"demo_simple.txt", "田中太郎は東京でトヨタの車を購入しました。"},
	{"demo_conference.txt", "2024年11月15日、東京国際フォーラムで開催されたAI技術カンファレンスにおいて、" +
		"OpenAI社のCEOサム・アルトマン氏が基調講演を行いました。同イベントには、トヨタ自動車株式会社の" +
		"豊田章男会長が参加しました。会場では、最新のGPT-5モデルが紹介されました。"},
	{"demo_policy.txt", "経済産業省の田中智子局長は、自由民主党のデジタル推進委員会で、" +
		"東京大学と京都大学の研究について議論しました。ChatGPTとClaudeの性能比較も行われました。"},
	{"demo_organizations.txt", "株式会社ABEJA、ソフトバンクグループ株式会社、マイクロソフト日本法人、" +
		"国立研究開発法人海洋研究開発機構が参加しました。"},
	{"demo_locations.txt", "東京、大阪、六本木、関西地方、奈良県で開催されます。"},
	{"demo_products.txt", "iPhone、GPT-4、Google Bard、Apple Intelligence、ChatGPT Plus。"},
	{"demo_events.txt", "AI技術カンファレンス、関西AI展、デジタル推進委員会、成果報告会。"},
	{"demo_plain.txt", "これは普通の文章です。特別な固有表現は含まれていません。"},
}

// DemoDocuments returns the built-in sample corpus.
func DemoDocuments() []domain.Document {
	docs := make([]domain.Document, len(demoTexts))
	for i, d := range demoTexts {
		docs[i] = domain.Document{Filename: d.name, Content: d.text}
	}
	return docs
}
