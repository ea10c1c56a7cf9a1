package report_test

import (
	"testing"
	"time"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/printing"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta() reportapp.ExportMeta {
	return reportapp.ExportMeta{
		BranchName:  "Centro",
		DateRange:   marchRange(),
		GeneratedAt: time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC),
	}
}

func TestBuildDocument_Header(t *testing.T) {
	doc := reportapp.BuildDocument(sampleSales(), report.SubtypeGeneral, testMeta())

	require.NoError(t, doc.Validate())
	assert.Equal(t, "Sales - General", doc.Title)
	assert.Equal(t, printing.OrientationPortrait, doc.Orientation)
	assert.Equal(t, []printing.KeyValue{
		{Label: "Generated", Value: "05/03/2024 18:30"},
		{Label: "Branch", Value: "Centro"},
		{Label: "Period", Value: "01/03/2024 - 31/03/2024"},
	}, doc.Meta)
}

func TestBuildDocument_DefaultHasTotalsRow(t *testing.T) {
	doc := reportapp.BuildDocument(sampleSales(), report.SubtypeGeneral, testMeta())

	tables := doc.Tables()
	require.Len(t, tables, 1)
	assert.False(t, tables[0].AvoidRowSplit)
	assert.Equal(t, "Total", tables[0].Totals[0])
	assert.Equal(t, "$150.50", tables[0].Totals[6])
	assert.Equal(t, printing.AlignRight, tables[0].Columns[6].Align)
	assert.Equal(t, printing.AlignLeft, tables[0].Columns[2].Align)
}

func TestBuildDocument_InventoryCategories(t *testing.T) {
	doc := reportapp.BuildDocument(sampleInventory(), report.SubtypeCategories, testMeta())

	require.NoError(t, doc.Validate())
	require.Len(t, doc.Sections, 4)
	assert.Equal(t, "Summary", doc.Sections[0].Heading)
	for i, name := range []string{"Bebidas", "Snacks", "Dulces"} {
		section := doc.Sections[i+1]
		assert.Equal(t, name, section.Heading)
		require.NotNil(t, section.Table)
		assert.Len(t, section.Summary, 5)
		assert.Nil(t, section.Table.Totals)
	}
}

func TestBuildDocument_LandscapeAndRowIntegrity(t *testing.T) {
	tests := []struct {
		name    string
		report  report.NormalizedReport
		subtype report.Subtype
		tables  int
	}{
		{name: "cash sessions", report: sampleCash(), subtype: report.SubtypeSessions, tables: 2},
		{name: "cash summary", report: sampleCash(), subtype: report.SubtypeSummary, tables: 1},
		{name: "movements general", report: sampleMovements(), subtype: report.SubtypeGeneral, tables: 1},
		{name: "movements by register", report: sampleMovements(), subtype: report.SubtypeByRegister, tables: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := reportapp.BuildDocument(tt.report, tt.subtype, testMeta())

			require.NoError(t, doc.Validate())
			assert.Equal(t, printing.OrientationLandscape, doc.Orientation)
			tables := doc.Tables()
			require.Len(t, tables, tt.tables)
			for _, table := range tables {
				assert.True(t, table.AvoidRowSplit)
			}
		})
	}
}

func TestBuildDocument_PeriodVariants(t *testing.T) {
	meta := testMeta()
	meta.BranchName = ""
	meta.DateRange = report.DateRange{Start: datePtr(2024, 3, 1)}

	doc := reportapp.BuildDocument(sampleInventory(), report.SubtypeGeneral, meta)

	assert.Equal(t, []printing.KeyValue{
		{Label: "Generated", Value: "05/03/2024 18:30"},
		{Label: "Period", Value: "From 01/03/2024"},
	}, doc.Meta)
}
