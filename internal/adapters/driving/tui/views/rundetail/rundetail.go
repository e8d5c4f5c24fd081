// Package rundetail provides the tabbed statistics view of one analysis run.
package rundetail

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/nerstat/internal/core/domain"
)

// Tab identifies a section of the run detail.
type Tab int

const (
	TabOverview Tab = iota
	TabTypes
	TabEntities
	TabTFIDF
	TabQuality
	TabPairs
	TabInsights
)

var tabLabels = []string{"概要", "タイプ", "頻出", "TF-IDF", "信頼度", "共起", "所見"}

// String returns the tab label.
func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabLabels) {
		return "unknown"
	}
	return tabLabels[t]
}

const (
	barWidth = 20
	topLimit = 20
)

// View shows the statistics of one run across tabs.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	vocab  *domain.EntityVocabulary
	bar    *status.Bar

	run    *domain.RunRecord
	tab    Tab
	offset int
	width  int
	height int
	ready  bool
}

// NewView creates a run detail view. A nil vocabulary uses the default one.
func NewView(s *styles.Styles, vocab *domain.EntityVocabulary) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if vocab == nil {
		vocab = domain.DefaultEntityVocabulary()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km)
	bar.SetHints(km.DetailHelp())
	return &View{
		styles: s,
		keymap: km,
		vocab:  vocab,
		bar:    bar,
		width:  80,
		height: 24,
	}
}

// Init implements the view lifecycle; the run is pushed with SetRun.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetRun replaces the displayed run and resets navigation.
func (v *View) SetRun(run domain.RunRecord) {
	v.run = &run
	v.tab = TabOverview
	v.offset = 0
}

// Run returns the displayed run.
func (v *View) Run() *domain.RunRecord {
	return v.run
}

// Tab returns the active tab.
func (v *View) Tab() Tab {
	return v.tab
}

// Update handles messages for the run detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewRuns}
			}
		case keymap.Matches(key, v.keymap.NextTab):
			v.tab = (v.tab + 1) % Tab(len(tabLabels))
			v.offset = 0
		case keymap.Matches(key, v.keymap.PrevTab):
			v.tab = (v.tab + Tab(len(tabLabels)) - 1) % Tab(len(tabLabels))
			v.offset = 0
		case keymap.Matches(key, v.keymap.Up):
			if v.offset > 0 {
				v.offset--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.offset < v.maxOffset() {
				v.offset++
			}
		}
	}
	return v, nil
}

// View renders the active tab.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.run == nil {
		return v.styles.Muted.Render("No run selected.")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Run " + v.run.ID))
	b.WriteString("\n")
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")

	lines := v.lines()
	end := v.offset + v.bodyHeight()
	if end > len(lines) {
		end = len(lines)
	}
	b.WriteString(strings.Join(lines[v.offset:end], "\n"))
	b.WriteString("\n\n")
	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) renderTabs() string {
	tabs := make([]string, len(tabLabels))
	for i, label := range tabLabels {
		tabs[i] = v.styles.Tab(label, Tab(i) == v.tab)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v *View) bodyHeight() int {
	// Title, tabs, spacing and status bar.
	h := v.height - 6
	if h < 1 {
		h = 1
	}
	return h
}

func (v *View) maxOffset() int {
	m := len(v.lines()) - v.bodyHeight()
	if m < 0 {
		return 0
	}
	return m
}

func (v *View) lines() []string {
	stats := v.run.Statistics
	if stats == nil && v.tab != TabOverview {
		return []string{v.styles.Muted.Render("統計情報がありません")}
	}
	switch v.tab {
	case TabTypes:
		return v.typeLines(stats)
	case TabEntities:
		return v.entityLines(stats)
	case TabTFIDF:
		return v.tfidfLines(stats)
	case TabQuality:
		return v.qualityLines(stats.Quality)
	case TabPairs:
		return v.pairLines(stats.Relationships)
	case TabInsights:
		return v.insightLines(stats.Insights)
	default:
		return v.overviewLines()
	}
}

func (v *View) overviewLines() []string {
	r := v.run
	lines := []string{
		fmt.Sprintf("入力        %s", r.InputPath),
		fmt.Sprintf("抽出器      %s (%s)", r.Extractor, r.Model),
		fmt.Sprintf("開始        %s", r.StartedAt.Local().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("所要時間    %s", r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond)),
		fmt.Sprintf("文書数      %d", r.TotalDocuments),
		fmt.Sprintf("固有表現数  %d", r.TotalEntities),
		fmt.Sprintf("平均信頼度  %.3f", r.MeanConfidence),
	}
	if r.Statistics != nil {
		lines = append(lines,
			fmt.Sprintf("文書あたり  %.2f", r.Statistics.AvgEntitiesPerDoc),
			fmt.Sprintf("異なり語数  %d", r.Statistics.EntityWordCounts.Len()))
	}
	if len(r.OutputFiles) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("出力ファイル"))
		for _, f := range r.OutputFiles {
			lines = append(lines, "  "+f)
		}
	}
	return lines
}

func (v *View) typeLines(stats *domain.CorpusStatistics) []string {
	entries := stats.EntityTypeCounts.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })

	lines := []string{v.styles.Header.Render(fmt.Sprintf("%-8s %-16s %6s %7s", "type", "description", "count", "share"))}
	for _, e := range entries {
		share := stats.EntityTypeDistribution[e.Key]
		lines = append(lines, fmt.Sprintf("%-8s %-16s %6d %6.1f%% %s",
			e.Key, v.vocab.Describe(e.Key), e.Count, share, v.styles.Fraction(share/100, barWidth)))
	}
	return lines
}

func (v *View) entityLines(stats *domain.CorpusStatistics) []string {
	lines := []string{v.styles.Header.Render(fmt.Sprintf("%4s  %-20s %6s", "rank", "word", "count"))}
	top := stats.MostCommonEntities
	peak := 1
	if len(top) > 0 && top[0].Count > 0 {
		peak = top[0].Count
	}
	for i, e := range top {
		lines = append(lines, fmt.Sprintf("%4d  %-20s %6d %s",
			i+1, e.Key, e.Count, v.styles.Fraction(float64(e.Count)/float64(peak), barWidth)))
	}
	return lines
}

func (v *View) tfidfLines(stats *domain.CorpusStatistics) []string {
	lines := []string{v.styles.Header.Render(fmt.Sprintf("%4s  %-20s %-16s %8s %8s %8s", "rank", "file", "word", "tf", "idf", "tfidf"))}
	for i, s := range stats.TFIDFRanking {
		if i == topLimit {
			break
		}
		lines = append(lines, fmt.Sprintf("%4d  %-20s %-16s %8.4f %8.4f %8.4f",
			s.Rank, s.Filename, s.Word, s.TF, s.IDF, s.TFIDF))
	}
	return lines
}

func (v *View) qualityLines(q *domain.QualityProfile) []string {
	if q == nil {
		return []string{v.styles.Muted.Render("信頼度データがありません")}
	}
	lines := []string{
		fmt.Sprintf("平均 %.3f  中央値 %.3f  標準偏差 %.3f", q.Mean, q.Median, q.StdDev),
		fmt.Sprintf("最小 %.3f  Q1 %.3f  Q3 %.3f  最大 %.3f", q.Min, q.Q1, q.Q3, q.Max),
		fmt.Sprintf("高信頼 (>0.9) %d  低信頼 (<0.7) %d", q.HighConfidenceCount, q.LowConfidenceCount),
		"",
		v.styles.Subtitle.Render("出現位置"),
		fmt.Sprintf("前半 %s %5.1f%%", v.styles.Fraction(q.Position.First, barWidth), q.Position.First*100),
		fmt.Sprintf("中盤 %s %5.1f%%", v.styles.Fraction(q.Position.Middle, barWidth), q.Position.Middle*100),
		fmt.Sprintf("後半 %s %5.1f%%", v.styles.Fraction(q.Position.Last, barWidth), q.Position.Last*100),
		"",
		v.styles.Header.Render(fmt.Sprintf("%-8s %6s %7s %7s %7s", "type", "count", "mean", "min", "max")),
	}
	for _, tc := range q.ByType {
		lines = append(lines, fmt.Sprintf("%-8s %6d %7.3f %7.3f %7.3f", tc.Type, tc.Count, tc.Mean, tc.Min, tc.Max))
	}
	return lines
}

func (v *View) pairLines(rel *domain.RelationshipAnalysis) []string {
	if rel == nil || len(rel.Pairs) == 0 {
		return []string{v.styles.Muted.Render("共起関係はありません")}
	}
	lines := []string{v.styles.Header.Render(fmt.Sprintf("%-14s %-14s %5s %8s %6s", "word a", "word b", "docs", "jaccard", "rate"))}
	for _, p := range rel.Pairs {
		lines = append(lines, fmt.Sprintf("%-14s %-14s %5d %8.3f %6.3f", p.WordA, p.WordB, p.Count, p.Jaccard, p.Rate))
	}
	return lines
}

func (v *View) insightLines(in *domain.InsightSet) []string {
	if in == nil {
		return []string{v.styles.Muted.Render("所見はありません")}
	}
	lines := []string{v.styles.Subtitle.Render("所見")}
	for _, o := range in.Observations {
		lines = append(lines, "• "+o)
	}
	lines = append(lines, "", v.styles.Subtitle.Render("推奨事項"))
	for _, r := range in.Recommendations {
		lines = append(lines, "• "+r)
	}
	return lines
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
}
