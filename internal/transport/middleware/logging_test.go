package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LoggingMiddleware", func() {
	var (
		out      *bytes.Buffer
		slogger  *slog.Logger
		received string
		handler  http.Handler
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		slogger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
		received = ""
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			received = string(body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true,"token":"abc.def.ghi"}`))
		})
		handler = middleware.LoggingMiddleware(slogger)(next)
	})

	It("masks credentials and still hands the full body to the handler", func() {
		body := `{"username":"dana","password":"hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer secret-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		Expect(received).To(Equal(body))
		Expect(rec.Body.String()).To(ContainSubstring("abc.def.ghi"))

		logged := out.String()
		Expect(logged).To(ContainSubstring("incoming request"))
		Expect(logged).To(ContainSubstring("dana"))
		Expect(logged).NotTo(ContainSubstring("hunter2"))
		Expect(logged).NotTo(ContainSubstring("secret-token"))
		Expect(logged).NotTo(ContainSubstring("abc.def.ghi"))
		Expect(logged).To(ContainSubstring(`"status_code":200`))
	})

	It("stays quiet for health probes", func() {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(out.Len()).To(BeZero())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("answers a panicking handler with SERVER_ERROR", func() {
		boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("sheet exploded")
		})
		handler := middleware.RecoveryMiddleware(slog.New(slog.DiscardHandler))(boom)

		rec := httptest.NewRecorder()
		Expect(func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/work-orders", nil))
		}).NotTo(Panic())

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring("SERVER_ERROR"))
	})

	It("re-raises http.ErrAbortHandler", func() {
		abort := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})
		handler := middleware.RecoveryMiddleware(slog.New(slog.DiscardHandler))(abort)

		Expect(func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(PanicWith(http.ErrAbortHandler))
	})
})
