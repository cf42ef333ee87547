package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/minio/minio-go/v7"
	"github.com/rajithaprasad/hardwareProject/internal/config"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func TestActorCapabilities(t *testing.T) {
	secretary := Actor{ID: "s1", Role: entity.RoleSecretary}
	if !secretary.Can(entity.CapAddToStock) || secretary.Can(entity.CapWithdrawFromStock) {
		t.Fatalf("secretary capabilities wrong")
	}
	if (Actor{Username: "bob"}).DisplayName() != "bob" {
		t.Error("expected username fallback for display name")
	}
	if !(Actor{Role: entity.RoleEmployee}).IsEmployee() {
		t.Error("expected employee")
	}
}

func TestStockAuthorize(t *testing.T) {
	s := &StockService{}
	tests := []struct {
		role    string
		txType  string
		wantErr error
	}{
		{entity.RoleManager, entity.TxTypeCheckIn, nil},
		{entity.RoleSecretary, entity.TxTypeCheckIn, nil},
		{entity.RoleDirector, entity.TxTypeCheckIn, ErrForbidden},
		{entity.RoleEmployee, entity.TxTypeCheckIn, ErrForbidden},
		{entity.RoleEmployee, entity.TxTypeCheckOut, nil},
		{entity.RoleDirector, entity.TxTypeCheckOut, nil},
		{entity.RoleSecretary, entity.TxTypeCheckOut, ErrForbidden},
		{entity.RoleManager, "transfer", entity.ErrInvalidTxType},
	}
	for _, tt := range tests {
		err := s.authorize(tt.txType, Actor{Role: tt.role})
		if tt.wantErr == nil && err != nil {
			t.Errorf("%s %s: unexpected error %v", tt.role, tt.txType, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("%s %s: expected %v, got %v", tt.role, tt.txType, tt.wantErr, err)
		}
	}
}

func reportRow(txType string, qty int, cost string) repository.ReportRow {
	return repository.ReportRow{
		Transaction: entity.Transaction{
			ID:        "t-" + txType,
			Type:      txType,
			Quantity:  qty,
			Timestamp: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
		},
		MaterialName: "Cement",
		UnitCost:     decimal.RequireFromString(cost),
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport([]repository.ReportRow{
		reportRow(entity.TxTypeCheckIn, 10, "12.50"),
		reportRow(entity.TxTypeCheckOut, 3, "0.10"),
	})
	if report.Count != 2 || report.TotalCheckIn != 10 || report.TotalCheckOut != 3 {
		t.Fatalf("unexpected counts %+v", report)
	}
	if !report.Rows[0].LineCost.Equal(decimal.RequireFromString("125")) {
		t.Errorf("expected line cost 125, got %s", report.Rows[0].LineCost)
	}
	if !report.TotalCost.Equal(decimal.RequireFromString("125.3")) {
		t.Errorf("expected total 125.3, got %s", report.TotalCost)
	}
}

func TestReportQueryFilter(t *testing.T) {
	f, err := ReportQuery{StartDate: "2026-05-01", EndDate: "2026-05-03", Type: entity.TxTypeCheckOut}.Filter()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.StartDate == nil || f.EndDate == nil || f.Type != entity.TxTypeCheckOut {
		t.Fatalf("unexpected filter %+v", f)
	}

	if _, err := (ReportQuery{StartDate: "05/01/2026"}).Filter(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for bad date, got %v", err)
	}
	if _, err := (ReportQuery{StartDate: "2026-05-03", EndDate: "2026-05-01"}).Filter(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for inverted range, got %v", err)
	}
	if _, err := (ReportQuery{Type: "moved"}).Filter(); !errors.Is(err, entity.ErrInvalidTxType) {
		t.Errorf("expected invalid type, got %v", err)
	}
}

func TestReportWorkbook(t *testing.T) {
	if _, err := ReportWorkbook(&Report{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if ErrNoData.Error() != "No data to export" {
		t.Errorf("unexpected message %q", ErrNoData.Error())
	}

	f, err := ReportWorkbook(BuildReport([]repository.ReportRow{reportRow(entity.TxTypeCheckIn, 4, "2.00")}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := f.GetCellValue("Report", "B2"); v != "Cement" {
		t.Errorf("expected material in B2, got %q", v)
	}
	if v, _ := f.GetCellValue("Report", "A3"); v != "Total" {
		t.Errorf("expected total row, got %q", v)
	}
}

func TestQuotationWorkbook(t *testing.T) {
	m := &entity.Material{ID: "m1", Name: "Rebar", Unit: "pieces", UnitCost: decimal.RequireFromString("25")}
	item, err := entity.NewQuotationItem(m, 5, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("price item: %v", err)
	}
	q := &entity.Quotation{
		ClientName: "Acme Builders",
		Date:       datatypes.Date(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)),
		Items:      datatypes.JSONSlice[entity.QuotationItem]{item},
	}
	q.Recalculate()

	f, err := QuotationWorkbook(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := f.GetCellValue("Quotation", "B2"); v != "Rebar" {
		t.Errorf("expected Rebar in B2, got %q", v)
	}
	if v, _ := f.GetCellValue("Quotation", "H2"); v != "112.5" {
		t.Errorf("expected 112.5 after discount, got %q", v)
	}
	if v, _ := f.GetCellValue("Quotation", "C4"); v != "Acme Builders" {
		t.Errorf("expected client name, got %q", v)
	}
	if got := sanitizeFilename("Acme / Builders"); got != "Acme___Builders" {
		t.Errorf("unexpected filename %q", got)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, color.White)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnail(t *testing.T) {
	thumb, err := Thumbnail(pngBytes(t, 640, 480), ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("expected 320x240, got %v", img.Bounds())
	}

	small, err := Thumbnail(pngBytes(t, 100, 50), ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, _, _ = image.Decode(bytes.NewReader(small))
	if img.Bounds().Dx() != 100 {
		t.Errorf("small images should not be upscaled, got %v", img.Bounds())
	}

	if _, err := Thumbnail([]byte("not an image"), ".txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeStore) PutObject(ctx context.Context, bucket, name string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+name] = data
	f.types[bucket+"/"+name] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: name, Size: int64(len(data))}, nil
}

func TestUploadStoresImageAndThumbnail(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewUploadService(store, config.MinIOConfig{Endpoint: "minio:9000", Bucket: "sitestock"}, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }

	data := pngBytes(t, 800, 400)
	res, err := svc.Upload(context.Background(), "notes", "Site.PNG", "image/png", int64(len(data)), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.URL, "http://minio:9000/sitestock/notes/2026/05/04/") || !strings.HasSuffix(res.URL, ".png") {
		t.Errorf("unexpected url %s", res.URL)
	}
	if !strings.Contains(res.ThumbnailURL, "/sitestock/thumbs/notes/2026/05/04/") {
		t.Errorf("unexpected thumbnail url %s", res.ThumbnailURL)
	}
	if len(store.objects) != 2 {
		t.Fatalf("expected original and thumbnail, got %d objects", len(store.objects))
	}
}

func TestUploadPlainFileAndDisabledStore(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewUploadService(store, config.MinIOConfig{PublicURL: "https://files.example.com/", Bucket: "b"}, nil)

	res, err := svc.Upload(context.Background(), "../etc", "manual.pdf", "application/pdf", 3, strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(res.URL, "https://files.example.com/b/files/") || res.ThumbnailURL != "" {
		t.Errorf("unexpected result %+v", res)
	}

	disabled := NewUploadService(nil, config.MinIOConfig{}, nil)
	if disabled.Enabled() {
		t.Error("expected storage disabled")
	}
	if _, err := disabled.Upload(context.Background(), "notes", "a.txt", "text/plain", 1, strings.NewReader("a")); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestUploadBrokenImageKeepsOriginal(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
	svc := NewUploadService(store, config.MinIOConfig{Endpoint: "minio:9000", Bucket: "b"}, nil)
	res, err := svc.Upload(context.Background(), "photos", "broken.jpg", "image/jpeg", 4, strings.NewReader("junk"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.URL == "" || res.ThumbnailURL != "" || len(store.objects) != 1 {
		t.Errorf("expected original only, got %+v with %d objects", res, len(store.objects))
	}
}
