package workorder_test

import (
	"encoding/json"

	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
	"github.com/frahmantamala/shopfloor-tasks/internal/workorder"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WorkOrder", func() {
	header := []string{"פרויקט", "שלב/מחלקה", "מספר משימה", "תיאור", "כמות דרושה", "כמות בוצע", "סטטוס ביצוע", "עובד אחראי", "מנהל אחראי", "תחילה", "סיום", "הערות"}

	Describe("FromRow", func() {
		It("maps every column and keeps the write indices", func() {
			cols := spreadsheet.ResolveColumns(header, workorder.Schema)
			row := []string{"P-100", "צביעה", "7", "גוף", "1,250", "40.5", "", "", "רון", "", "", ""}

			o := workorder.FromRow(cols, row, 4)

			Expect(o.Row).To(Equal(4))
			Expect(o.Project).To(Equal("P-100"))
			Expect(o.Stage).To(Equal("צביעה"))
			Expect(o.TaskNo).To(Equal("7"))
			Expect(o.Description).To(Equal("גוף"))
			Expect(o.QtyRequired).To(Equal(1250.0))
			Expect(o.QtyDone).To(Equal(40.5))
			Expect(o.Manager).To(Equal("רון"))
			Expect(o.Raw).To(Equal(row))
			Expect(o.Indices).To(Equal(workorder.ColumnIndices{Status: 6, Worker: 7, Start: 9, End: 10, QtyDone: 5, Notes: 11}))
			Expect(o.Version).To(HaveLen(16))
		})

		It("marks unresolved columns with -1 and leaves their fields empty", func() {
			cols := spreadsheet.ResolveColumns([]string{"project", "status"}, workorder.Schema)
			o := workorder.FromRow(cols, []string{"P-1"}, 2)

			Expect(o.Status).To(BeEmpty())
			Expect(o.Indices.Status).To(Equal(1))
			Expect(o.Indices.Worker).To(Equal(-1))
			Expect(o.Indices.QtyDone).To(Equal(-1))
			Expect(o.RawCell(1)).To(BeEmpty())
			Expect(o.RawCell(-1)).To(BeEmpty())
		})

		It("serializes with the client field names", func() {
			cols := spreadsheet.ResolveColumns(header, workorder.Schema)
			data, err := json.Marshal(workorder.FromRow(cols, nil, 2))
			Expect(err).NotTo(HaveOccurred())

			var m map[string]interface{}
			Expect(json.Unmarshal(data, &m)).To(Succeed())
			Expect(m).To(HaveKey("task_no"))
			Expect(m).To(HaveKey("qty_required"))
			Expect(m).To(HaveKeyWithValue("_rowRaw", []interface{}{}))
			Expect(m["_indices"]).To(HaveKeyWithValue("iQtyDone", 5.0))
		})
	})

	DescribeTable("ParseQuantity",
		func(in string, expected float64) {
			Expect(workorder.ParseQuantity(in)).To(Equal(expected))
		},
		Entry("empty", "", 0.0),
		Entry("integer", "12", 12.0),
		Entry("thousands separators", "1,234,567", 1234567.0),
		Entry("decimal", "3.25", 3.25),
		Entry("leading whitespace", "  8", 8.0),
		Entry("trailing text", "15 יח'", 15.0),
		Entry("not a number", "abc", 0.0),
		Entry("negative", "-4", -4.0),
		Entry("leading dot", ".5", 0.5),
		Entry("exponent", "1e3", 1000.0),
	)

	DescribeTable("IsClosed",
		func(status string, closed bool) {
			o := &workorder.WorkOrder{Status: status}
			Expect(o.IsClosed()).To(Equal(closed))
		},
		Entry("hebrew closed", "סגור", true),
		Entry("hebrew closing", "בסגירה", true),
		Entry("english done", "Done", true),
		Entry("english closed", " CLOSED ", true),
		Entry("in progress", "בתהליך", false),
		Entry("pending approval", "בוצע לאישור", false),
		Entry("empty", "", false),
	)

	Describe("VisibleTo", func() {
		It("matches the trimmed worker exactly", func() {
			o := &workorder.WorkOrder{Worker: " dana ", Stage: "צביעה"}
			Expect(o.VisibleTo("dana", "")).To(BeTrue())
			Expect(o.VisibleTo("Dana", "")).To(BeFalse())
			Expect(o.VisibleTo("", "צביעה")).To(BeFalse())
		})

		It("falls back to the department only for unassigned orders", func() {
			o := &workorder.WorkOrder{Worker: "  ", Stage: "שלב 2 - צביעה"}
			Expect(o.VisibleTo("dana", "צביעה")).To(BeTrue())
			Expect(o.VisibleTo("dana", "הרכבה")).To(BeFalse())
			Expect(o.VisibleTo("dana", "")).To(BeFalse())
		})

		It("never matches an empty username against an empty worker", func() {
			o := &workorder.WorkOrder{}
			Expect(o.VisibleTo("", "")).To(BeFalse())
		})
	})

	Describe("RowVersion", func() {
		It("changes when any cell changes", func() {
			a := workorder.RowVersion([]string{"P-1", "צביעה", ""})
			Expect(workorder.RowVersion([]string{"P-1", "צביעה", ""})).To(Equal(a))
			Expect(workorder.RowVersion([]string{"P-1", "צביעה", "dana"})).NotTo(Equal(a))
			Expect(workorder.RowVersion([]string{"P-1צביעה", ""})).NotTo(Equal(a))
		})
	})
})

var _ = Describe("Request DTOs", func() {
	DescribeTable("row accepts numbers and numeric strings",
		func(body string, expected int) {
			var dto workorder.StartDTO
			Expect(json.Unmarshal([]byte(body), &dto)).To(Succeed())
			Expect(int(dto.Row)).To(Equal(expected))
		},
		Entry("number", `{"row":5}`, 5),
		Entry("string", `{"row":"12"}`, 12),
		Entry("padded string", `{"row":" 3 "}`, 3),
		Entry("float with zero fraction", `{"row":7.0}`, 7),
		Entry("null", `{"row":null}`, 0),
		Entry("empty string", `{"row":""}`, 0),
		Entry("absent", `{}`, 0),
	)

	It("rejects rows that are not integers", func() {
		var dto workorder.StartDTO
		Expect(json.Unmarshal([]byte(`{"row":"abc"}`), &dto)).NotTo(Succeed())
		Expect(json.Unmarshal([]byte(`{"row":2.5}`), &dto)).NotTo(Succeed())
		Expect(json.Unmarshal([]byte(`{"row":true}`), &dto)).NotTo(Succeed())
	})

	It("tells an absent quantity from zero", func() {
		var dto workorder.DoneDTO
		Expect(json.Unmarshal([]byte(`{"row":2}`), &dto)).To(Succeed())
		Expect(dto.QtyDone).To(BeNil())
		Expect(dto.Notes).To(BeNil())

		Expect(json.Unmarshal([]byte(`{"row":2,"qty_done":0,"notes":""}`), &dto)).To(Succeed())
		Expect(dto.QtyDone).NotTo(BeNil())
		Expect(float64(*dto.QtyDone)).To(BeZero())
		Expect(*dto.Notes).To(BeEmpty())
	})

	It("accepts quantities as strings", func() {
		var dto workorder.UpdateQuantityDTO
		Expect(json.Unmarshal([]byte(`{"row":"4","qty_done":"12.5"}`), &dto)).To(Succeed())
		Expect(dto.QtyDone.String()).To(Equal("12.5"))

		Expect(json.Unmarshal([]byte(`{"row":4,"qty_done":"many"}`), &dto)).NotTo(Succeed())
	})
})
