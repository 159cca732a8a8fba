package spreadsheet_test

import (
	"errors"

	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Header resolution", func() {
	Describe("ResolveColumn", func() {
		It("returns -1 when nothing matches", func() {
			Expect(spreadsheet.ResolveColumn([]string{"a", "b"}, []string{"zzz"})).To(Equal(-1))
		})

		It("matches trimmed case-insensitive substrings", func() {
			header := []string{"  ID ", "User Name", "PASSWORD"}
			Expect(spreadsheet.ResolveColumn(header, []string{"username", "user"})).To(Equal(1))
			Expect(spreadsheet.ResolveColumn(header, []string{"password"})).To(Equal(2))
		})

		It("tries synonyms in priority order before header order", func() {
			header := []string{"department", "stage"}
			Expect(spreadsheet.ResolveColumn(header, []string{"stage", "department"})).To(Equal(1))
		})

		It("picks the leftmost header for a single synonym", func() {
			header := []string{"סטטוס ביצוע", "סטטוס"}
			Expect(spreadsheet.ResolveColumn(header, []string{"סטטוס"})).To(Equal(0))
		})

		It("finds a synonym embedded in a longer label", func() {
			header := []string{"פרויקט/הזמנה", "שלב/מחלקה"}
			Expect(spreadsheet.ResolveColumn(header, []string{"פרויקט"})).To(Equal(0))
			Expect(spreadsheet.ResolveColumn(header, []string{"מחלקה"})).To(Equal(1))
		})

		It("handles an empty header", func() {
			Expect(spreadsheet.ResolveColumn(nil, []string{"x"})).To(Equal(-1))
		})
	})

	Describe("ColumnMap", func() {
		schema := spreadsheet.Schema{
			{Name: "status", Synonyms: []string{"status"}},
			{Name: "worker", Synonyms: []string{"worker"}},
			{Name: "notes", Synonyms: []string{"notes"}},
			{Name: "state", Synonyms: []string{"stat"}},
		}

		var cols spreadsheet.ColumnMap

		BeforeEach(func() {
			cols = spreadsheet.ResolveColumns([]string{"Status", "Worker"}, schema)
		})

		It("reports resolved and missing fields", func() {
			idx, ok := cols.Index("worker")
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(1))

			_, ok = cols.Index("notes")
			Expect(ok).To(BeFalse())
			Expect(cols.Position("notes")).To(Equal(-1))
			Expect(cols.Position("unknown")).To(Equal(-1))
		})

		It("reads cells tolerating short rows and missing columns", func() {
			Expect(cols.Cell([]string{"open", "dana"}, "worker")).To(Equal("dana"))
			Expect(cols.Cell([]string{"open"}, "worker")).To(BeEmpty())
			Expect(cols.Cell([]string{"open", "dana"}, "notes")).To(BeEmpty())
		})

		It("returns a typed error for a required column that is missing", func() {
			Expect(cols.Require("status", "worker")).To(Succeed())

			err := cols.Require("status", "notes")
			var missing *spreadsheet.ColumnMissingError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.Field).To(Equal("notes"))
		})

		It("lists fields that landed on the same column", func() {
			Expect(cols.Collisions()).To(HaveKeyWithValue(0, []string{"state", "status"}))
			Expect(cols.Collisions()).NotTo(HaveKey(1))
		})
	})
})
