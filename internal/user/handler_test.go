package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal/transport"
	"github.com/frahmantamala/shopfloor-tasks/internal/user"
	userSheets "github.com/frahmantamala/shopfloor-tasks/internal/user/sheets"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeReader struct {
	values [][]string
	err    error
	ranges []string
}

func (f *fakeReader) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	f.ranges = append(f.ranges, rng)
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

var _ = Describe("User Handler Integration", func() {
	var (
		reader  *fakeReader
		handler *user.Handler
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		reader = &fakeReader{values: [][]string{
			{"שם משתמש", "סיסמה", "תפקיד", "פעיל", "מחלקה"},
			{"alice", "pw1", "Worker", "", "צביעה"},
			{"bob", "pw2", "worker", "false", "הרכבה"},
		}}

		repo := userSheets.NewUserRepository(reader, "Sheet1", slogger)
		service := user.NewService(repo, nil, slogger)
		handler = user.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	})

	post := func(body string) (*httptest.ResponseRecorder, map[string]interface{}) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		var resp map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return rec, resp
	}

	It("answers the login envelope on success", func() {
		rec, resp := post(`{"username":"alice","password":"pw1"}`)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp["ok"]).To(BeTrue())
		Expect(resp["user"]).To(Equal(map[string]interface{}{
			"username":   "alice",
			"role":       "worker",
			"department": "צביעה",
		}))
		Expect(resp).NotTo(HaveKey("token"))
		Expect(reader.ranges).To(Equal([]string{"Sheet1!A1:Z"}))
	})

	It("rejects inactive users with 401", func() {
		rec, resp := post(`{"username":"bob","password":"pw2"}`)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(resp["ok"]).To(BeFalse())
		Expect(resp["error"]).To(Equal("BAD_CREDENTIALS"))
	})

	It("answers 400 MISSING_CREDENTIALS for an empty body", func() {
		rec, resp := post(``)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(resp["error"]).To(Equal("MISSING_CREDENTIALS"))
	})

	It("answers 400 INVALID_REQUEST for malformed JSON", func() {
		rec, resp := post(`{"username":`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(resp["error"]).To(Equal("INVALID_REQUEST"))
	})

	It("answers 500 SERVER_ERROR when the sheet is unreachable", func() {
		reader.err = errors.New("connection refused")

		rec, resp := post(`{"username":"alice","password":"pw1"}`)
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(resp).To(Equal(map[string]interface{}{"ok": false, "error": "SERVER_ERROR"}))
	})
})
