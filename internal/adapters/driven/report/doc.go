// Package report writes analysis runs to the output directory.
//
// Each format lives in its own subpackage and implements driven.ReportWriter:
//
//   - csvreport: one row per entity occurrence with relevance columns (ner_results.csv)
//   - markdown: the narrative Japanese report (analysis_report.md)
//   - jsonreport: the full run with statistics (analysis.json)
//
// Writers for a run are built with NewWriters. The output directory is guarded
// by an advisory file lock so two analyses never interleave their files.
package report
