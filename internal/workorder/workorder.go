package workorder

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
)

const (
	FieldProject     = "project"
	FieldStage       = "stage"
	FieldTaskNo      = "task_no"
	FieldDescription = "description"
	FieldQtyRequired = "qty_required"
	FieldQtyDone     = "qty_done"
	FieldStatus      = "status"
	FieldWorker      = "worker"
	FieldManager     = "manager"
	FieldStart       = "start"
	FieldEnd         = "end"
	FieldNotes       = "notes"
)

// Schema lists the header labels accepted for each orders-sheet column, highest priority first.
var Schema = spreadsheet.Schema{
	{Name: FieldProject, Synonyms: []string{"פרויקט", "פרויקט/הזמנה", "project", "order"}},
	{Name: FieldStage, Synonyms: []string{"שלב/מחלקה", "שלב", "מחלקה", "stage", "department"}},
	{Name: FieldTaskNo, Synonyms: []string{"מספר משימה", "task no", "task"}},
	{Name: FieldDescription, Synonyms: []string{"תיאור", "תיאור משימה", "פעולה/מוצר", "description"}},
	{Name: FieldQtyRequired, Synonyms: []string{"כמות דרושה", "כמות דרושות", "qty required", "כמות דרושה לביצוע"}},
	{Name: FieldQtyDone, Synonyms: []string{"כמות בוצע", "כמות ביצוע", "qty done"}},
	{Name: FieldStatus, Synonyms: []string{"סטטוס ביצוע", "סטטוס", "status"}},
	{Name: FieldWorker, Synonyms: []string{"עובד אחראי", "worker", "אחראי"}},
	{Name: FieldManager, Synonyms: []string{"מנהל אחראי", "manager"}},
	{Name: FieldStart, Synonyms: []string{"תחילה", "התחלה", "start"}},
	{Name: FieldEnd, Synonyms: []string{"סיום", "end"}},
	{Name: FieldNotes, Synonyms: []string{"הערות", "notes"}},
}

// ColumnIndices are the zero-based positions of the writable columns, -1 when unresolved.
type ColumnIndices struct {
	Status  int `json:"iStatus"`
	Worker  int `json:"iWorker"`
	Start   int `json:"iStart"`
	End     int `json:"iEnd"`
	QtyDone int `json:"iQtyDone"`
	Notes   int `json:"iNotes"`
}

// WorkOrder is one data row of the orders sheet. Identity is the sheet row number.
type WorkOrder struct {
	Row         int           `json:"row"`
	Project     string        `json:"project"`
	Stage       string        `json:"stage"`
	TaskNo      string        `json:"task_no"`
	Description string        `json:"description"`
	QtyRequired float64       `json:"qty_required"`
	QtyDone     float64       `json:"qty_done"`
	Status      string        `json:"status"`
	Worker      string        `json:"worker"`
	Manager     string        `json:"manager"`
	Start       string        `json:"start"`
	End         string        `json:"end"`
	Notes       string        `json:"notes"`
	Raw         []string      `json:"_rowRaw"`
	Indices     ColumnIndices `json:"_indices"`
	Version     string        `json:"version"`
}

// FromRow maps one data row. sheetRow is the 1-based row number in the sheet.
func FromRow(cols spreadsheet.ColumnMap, row []string, sheetRow int) *WorkOrder {
	raw := make([]string, len(row))
	copy(raw, row)

	return &WorkOrder{
		Row:         sheetRow,
		Project:     cols.Cell(row, FieldProject),
		Stage:       cols.Cell(row, FieldStage),
		TaskNo:      cols.Cell(row, FieldTaskNo),
		Description: cols.Cell(row, FieldDescription),
		QtyRequired: ParseQuantity(cols.Cell(row, FieldQtyRequired)),
		QtyDone:     ParseQuantity(cols.Cell(row, FieldQtyDone)),
		Status:      cols.Cell(row, FieldStatus),
		Worker:      cols.Cell(row, FieldWorker),
		Manager:     cols.Cell(row, FieldManager),
		Start:       cols.Cell(row, FieldStart),
		End:         cols.Cell(row, FieldEnd),
		Notes:       cols.Cell(row, FieldNotes),
		Raw:         raw,
		Indices: ColumnIndices{
			Status:  cols.Position(FieldStatus),
			Worker:  cols.Position(FieldWorker),
			Start:   cols.Position(FieldStart),
			End:     cols.Position(FieldEnd),
			QtyDone: cols.Position(FieldQtyDone),
			Notes:   cols.Position(FieldNotes),
		},
		Version: RowVersion(row),
	}
}

// RawCell returns the raw value at col, or "" when col is unresolved or past the row end.
func (o *WorkOrder) RawCell(col int) string {
	if col < 0 || col >= len(o.Raw) {
		return ""
	}
	return o.Raw[col]
}

var closedStatus = regexp.MustCompile(`(?i)סגור|סגירה|done|closed`)

// IsClosed reports a status that takes the order off every worker's list.
func (o *WorkOrder) IsClosed() bool {
	return closedStatus.MatchString(strings.TrimSpace(o.Status))
}

// VisibleTo reports whether the order is assigned to username, or is unassigned and its stage
// mentions department. Closed orders are not excluded here.
func (o *WorkOrder) VisibleTo(username, department string) bool {
	worker := strings.TrimSpace(o.Worker)
	if username != "" && worker == username {
		return true
	}
	return worker == "" && department != "" && o.Stage != "" && strings.Contains(o.Stage, department)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseQuantity strips thousands separators and reads the longest numeric prefix.
// Empty or unparseable text is 0.
func ParseQuantity(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	prefix := leadingFloat.FindString(s)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || f == 0 {
		return 0
	}
	return f
}

// RowVersion is a short checksum of the raw cells, used to detect a row changing between
// a listing and a later write.
func RowVersion(row []string) string {
	sum := sha256.Sum256([]byte(strings.Join(row, "\x1f")))
	return hex.EncodeToString(sum[:])[:16]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
