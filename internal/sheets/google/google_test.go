package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"condo/internal/notify"
	ports "condo/internal/sheets"
)

// fakeSheets answers the handful of Sheets endpoints the client uses.
type fakeSheets struct {
	mu      sync.Mutex
	titles  []string
	added   []string
	cleared []string
	updates map[string][][]any
	rows    int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && path == "/v4/spreadsheets/sheet-id":
		var sheets []map[string]any
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			f.added = append(f.added, rq.AddSheet.Properties.Title)
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.cleared = append(f.cleared, path)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		values := make([][]string, f.rows)
		for i := range values {
			values[i] = []string{"x"}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"values": values})
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		f.updates[rng] = vr.Values
		_, _ = w.Write([]byte(`{}`))
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	fake.updates = map[string][][]any{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return NewWithService(svc, "sheet-id", "Actividad", nil)
}

func TestWriteTableCreatesSheet(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Hoja 1"}}
	c := newTestClient(t, fake)

	ref, err := c.WriteTable(context.Background(), ports.Table{
		Name:   "Morosidad",
		Header: []string{"Lote", "Propietario", "Adeudo"},
		Rows:   [][]string{{"31", "Jorge", "$1,800.00"}, {"22", "Sofia", "$2,000.00"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ref != "'Morosidad'!A1:C3" {
		t.Fatalf("ref = %s", ref)
	}
	if len(fake.added) != 1 || fake.added[0] != "Morosidad" {
		t.Fatalf("sheet not created: %v", fake.added)
	}
	if len(fake.cleared) != 1 {
		t.Fatal("sheet not cleared before writing")
	}
	got := fake.updates[ref]
	if len(got) != 3 || got[1][0] != "31" {
		t.Fatalf("unexpected values %v", got)
	}

	if _, err := c.WriteTable(context.Background(), ports.Table{Name: "Morosidad", Header: []string{"Lote"}}); err != nil {
		t.Fatal(err)
	}
	if len(fake.added) != 1 {
		t.Fatal("known sheet created twice")
	}
}

func TestAppendActivityUsesNextRow(t *testing.T) {
	fake := &fakeSheets{titles: []string{"2023 Actividad"}, rows: 2}
	c := newTestClient(t, fake)

	at := time.Date(2023, 10, 25, 9, 30, 0, 0, time.UTC)
	ref, err := c.AppendActivity(context.Background(), notify.Event{
		Collection: "packages", RecordID: "pkg-4", Message: "Paquete de DHL registrado en caseta.", At: at,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ref != "'2023 Actividad'!A3:D3" {
		t.Fatalf("ref = %s", ref)
	}
	row := fake.updates[ref]
	if len(row) != 1 || row[0][0] != "2023-10-25 09:30:00" || row[0][2] != "pkg-4" {
		t.Fatalf("unexpected row %v", row)
	}
	if len(fake.added) != 0 {
		t.Fatal("existing sheet should be reused")
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if _, err := loadCredentials(Config{}); err == nil {
		t.Fatal("expected an error without credentials")
	}
	b, err := loadCredentials(Config{CredentialsJSON: ` {"type":"service_account"} `})
	if err != nil || string(b) != `{"type":"service_account"}` {
		t.Fatalf("got %q, %v", b, err)
	}
	if _, err := loadCredentials(Config{CredentialsFile: t.TempDir() + "/missing.json"}); err == nil {
		t.Fatal("expected a read error")
	}
}

func TestFormatHelpers(t *testing.T) {
	letters := map[int]string{1: "A", 4: "D", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for n, want := range letters {
		if got := columnLetter(n); got != want {
			t.Errorf("columnLetter(%d) = %s, want %s", n, got, want)
		}
	}
	if got := quoteSheet("Estado de cuenta"); got != "'Estado de cuenta'" {
		t.Errorf("quoteSheet = %s", got)
	}
	if got := quoteSheet("O'Brien"); got != "'O''Brien'" {
		t.Errorf("quoteSheet = %s", got)
	}
	if got := yearPrefixedName("Actividad", 2024); got != "2024 Actividad" {
		t.Errorf("yearPrefixedName = %s", got)
	}
	if got := yearPrefixedName("2023 Actividad", 2024); got != "2023 Actividad" {
		t.Errorf("yearPrefixedName kept = %s", got)
	}
}
