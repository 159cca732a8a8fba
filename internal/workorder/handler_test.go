package workorder_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport"
	"github.com/frahmantamala/shopfloor-tasks/internal/workorder"
	workorderSheets "github.com/frahmantamala/shopfloor-tasks/internal/workorder/sheets"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sheetWrite struct {
	Sheet string
	Row   int
	Col   int
	Value interface{}
}

type fakeSheet struct {
	values [][]string
	writes []sheetWrite
}

func (f *fakeSheet) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	return f.values, nil
}

func (f *fakeSheet) UpdateCell(ctx context.Context, sheet string, row, col int, value interface{}) error {
	f.writes = append(f.writes, sheetWrite{Sheet: sheet, Row: row, Col: col, Value: value})
	return nil
}

var _ = Describe("Work Order Handler Integration", func() {
	var (
		sheet   *fakeSheet
		handler *workorder.Handler
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		sheet = &fakeSheet{values: [][]string{
			{"Project", "Stage", "Task No", "Description", "Qty Required", "Qty Done", "Status", "Worker", "Manager", "Start", "End", "Notes"},
			{"P-1", "paint", "1", "body", "1,000", "", "", "", "ron", "", "", ""},
			{"P-2", "assembly", "2", "frame", "50", "10", "closed", "dana", "ron", "", "", ""},
		}}

		repo := workorderSheets.NewWorkOrderRepository(sheet, "Orders", slogger)
		service := workorder.NewService(repo, nil, slogger, workorder.WithClock(func() time.Time {
			return time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
		}))
		handler = workorder.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var resp map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	post := func(h http.HandlerFunc, body string, ctx context.Context) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)).WithContext(ctx)
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	Describe("GET /api/work-orders", func() {
		It("lists open orders for the department", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/work-orders?username=%20dana%20&department=paint", nil)
			rec := httptest.NewRecorder()
			handler.ListWorkOrders(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			resp := decode(rec)
			Expect(resp["ok"]).To(BeTrue())
			data := resp["data"].([]interface{})
			Expect(data).To(HaveLen(1))

			order := data[0].(map[string]interface{})
			Expect(order["row"]).To(Equal(2.0))
			Expect(order["qty_required"]).To(Equal(1000.0))
			Expect(order["qty_done"]).To(Equal(0.0))
			Expect(order["_indices"]).To(HaveKeyWithValue("iWorker", 7.0))
			Expect(order["version"]).NotTo(BeEmpty())
		})

		It("answers an empty array rather than null", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/work-orders", nil)
			rec := httptest.NewRecorder()
			handler.ListWorkOrders(rec, req)

			Expect(rec.Body.String()).To(ContainSubstring(`"data":[]`))
		})

		It("fills the filter from a verified session", func() {
			ctx := internal.ContextWithSession(context.Background(), &internal.Session{
				Username: "eli", Role: "worker", Department: "paint", Source: internal.SessionSourceToken,
			})
			req := httptest.NewRequest(http.MethodGet, "/api/work-orders", nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			handler.ListWorkOrders(rec, req)

			Expect(decode(rec)["data"]).To(HaveLen(1))
		})
	})

	Describe("POST /api/tasks/start", func() {
		It("accepts the row as a string and writes to the orders sheet", func() {
			rec := post(handler.StartTask, `{"row":"2","username":"dana"}`, context.Background())

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)).To(Equal(map[string]interface{}{"ok": true}))
			Expect(sheet.writes).To(HaveLen(3))
			Expect(sheet.writes[0]).To(Equal(sheetWrite{Sheet: "Orders", Row: 2, Col: 7, Value: "dana"}))
			Expect(sheet.writes[2].Value).To(Equal("02/01/2025 03:04:05"))
		})

		It("answers 400 MISSING_PARAMS without a username", func() {
			rec := post(handler.StartTask, `{"row":2}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(rec)["error"]).To(Equal("MISSING_PARAMS"))
		})

		It("takes the username from a verified session", func() {
			ctx := internal.ContextWithSession(context.Background(), &internal.Session{
				Username: "eli", Role: "worker", Source: internal.SessionSourceToken,
			})
			rec := post(handler.StartTask, `{"row":2}`, ctx)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(sheet.writes[0].Value).To(Equal("eli"))
		})

		It("answers 404 ROW_NOT_FOUND", func() {
			rec := post(handler.StartTask, `{"row":40,"username":"dana"}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decode(rec)["error"]).To(Equal("ROW_NOT_FOUND"))
		})

		It("answers 409 for a stale version", func() {
			rec := post(handler.StartTask, `{"row":2,"username":"dana","version":"0000000000000000"}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(decode(rec)["error"]).To(Equal("ROW_VERSION_MISMATCH"))
			Expect(sheet.writes).To(BeEmpty())
		})

		It("answers 400 INVALID_REQUEST for a malformed row", func() {
			rec := post(handler.StartTask, `{"row":"two","username":"dana"}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(rec)["error"]).To(Equal("INVALID_REQUEST"))
		})
	})

	Describe("POST /api/tasks/updateQuantity", func() {
		It("writes the quantity", func() {
			rec := post(handler.UpdateQuantity, `{"row":3,"qty_done":"12"}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(sheet.writes).To(Equal([]sheetWrite{{Sheet: "Orders", Row: 3, Col: 5, Value: 12.0}}))
		})

		It("answers 400 MISSING_PARAMS without a quantity", func() {
			rec := post(handler.UpdateQuantity, `{"row":3}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(rec)["error"]).To(Equal("MISSING_PARAMS"))
		})

		It("answers 400 QTY_DONE_COLUMN_NOT_FOUND", func() {
			sheet.values[0] = []string{"Project", "Stage"}
			rec := post(handler.UpdateQuantity, `{"row":3,"qty_done":1}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(rec)["error"]).To(Equal("QTY_DONE_COLUMN_NOT_FOUND"))
		})
	})

	Describe("POST /api/tasks/done", func() {
		It("writes end, status, quantity and notes", func() {
			rec := post(handler.DoneTask, `{"row":2,"qty_done":50,"notes":"ok"}`, context.Background())
			Expect(rec.Code).To(Equal(http.StatusOK))

			Expect(sheet.writes).To(Equal([]sheetWrite{
				{Sheet: "Orders", Row: 2, Col: 10, Value: "02/01/2025 03:04:05"},
				{Sheet: "Orders", Row: 2, Col: 6, Value: "בוצע לאישור"},
				{Sheet: "Orders", Row: 2, Col: 5, Value: 50.0},
				{Sheet: "Orders", Row: 2, Col: 11, Value: "ok"},
			}))
		})
	})
})
