package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rajithaprasad/hardwareProject/internal/client"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

// fakeAPI is a minimal in-memory stand-in for the HTTP API.
type fakeAPI struct {
	mu         sync.Mutex
	role       string
	categories []entity.Category
	materials  []entity.Material
	users      []entity.User
	requests   map[string]int
	txKeys     []string
	failTx     int
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[method+" "+path]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[r.Method+" "+r.URL.Path]++

	writeJSON := func(status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	switch r.Method + " " + r.URL.Path {
	case "POST /api/login.php":
		writeJSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"token":   "tok",
			"user":    map[string]string{"id": "u1", "username": "sam", "role": f.role, "full_name": "Sam Site"},
		})
	case "GET /api/categories.php":
		writeJSON(http.StatusOK, f.categories)
	case "POST /api/categories.php":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		c := entity.Category{ID: "c-new", Name: body["name"], Description: body["description"]}
		f.categories = append(f.categories, c)
		writeJSON(http.StatusCreated, c)
	case "DELETE /api/categories.php":
		writeJSON(http.StatusOK, map[string]bool{"success": true})
	case "GET /api/materials.php":
		writeJSON(http.StatusOK, f.materials)
	case "GET /api/users.php":
		role := r.URL.Query().Get("role")
		out := []entity.User{}
		for _, u := range f.users {
			if role == "" || u.Role == role {
				out = append(out, u)
			}
		}
		writeJSON(http.StatusOK, out)
	case "POST /api/users.php":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		u := entity.User{ID: "u-new", Username: body["username"], FullName: body["full_name"], Role: body["role"]}
		f.users = append(f.users, u)
		writeJSON(http.StatusCreated, u)
	case "DELETE /api/users.php":
		writeJSON(http.StatusOK, map[string]bool{"success": true})
	case "GET /api/get_material_by_qr.php":
		code := r.URL.Query().Get("qrCode")
		for _, m := range f.materials {
			if m.QRCode == code {
				writeJSON(http.StatusOK, m)
				return
			}
		}
		writeJSON(http.StatusNotFound, map[string]interface{}{"success": false, "code": 40400, "message": "Material not found"})
	case "POST /api/transactions.php":
		var in client.TransactionInput
		json.NewDecoder(r.Body).Decode(&in)
		f.txKeys = append(f.txKeys, in.IdempotencyKey)
		if f.failTx > 0 {
			f.failTx--
			writeJSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "code": 50000, "message": "Internal server error"})
			return
		}
		for i := range f.materials {
			if f.materials[i].ID == in.MaterialID {
				next, err := entity.NextStock(f.materials[i].CurrentStock, in.Type, in.Quantity)
				if err != nil {
					writeJSON(http.StatusUnprocessableEntity, map[string]interface{}{"success": false, "code": 42200, "message": err.Error()})
					return
				}
				f.materials[i].CurrentStock = next
				writeJSON(http.StatusCreated, client.TransactionResult{ID: "t-" + in.IdempotencyKey, NewStock: next})
				return
			}
		}
		writeJSON(http.StatusNotFound, map[string]interface{}{"success": false, "code": 40400, "message": "Material not found"})
	default:
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func setupDashboard(t *testing.T, role string) (*Dashboard, *fakeAPI, *recordingNotifier) {
	t.Helper()
	api := &fakeAPI{
		role:     role,
		requests: map[string]int{},
		categories: []entity.Category{
			{ID: "c1", Name: "Masonry", Description: "Bricks and blocks"},
			{ID: "c2", Name: "Electrical", Description: "Wiring"},
		},
		materials: []entity.Material{
			{ID: "m1", Name: "Type I Portland Cement", Unit: "bags", CurrentStock: 5, MinStock: 2, QRCode: "QR-TYPE-I-PORTLAND-CEMENT-123"},
			{ID: "m2", Name: "Copper Wire", Unit: "rolls", CurrentStock: 0, MinStock: 1, QRCode: "QR-COPPER-WIRE-456"},
		},
		users: []entity.User{
			{ID: "u1", Username: "sam", FullName: "Sam Site", Role: role},
			{ID: "e1", Username: "eve", FullName: "Eve Mason", Role: entity.RoleEmployee},
		},
	}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	notifier := &recordingNotifier{}
	d := New(client.NewClient(srv.URL+"/api"), notifier)
	if err := d.Login(context.Background(), "sam", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return d, api, notifier
}

func TestLoginLoadsCollections(t *testing.T) {
	d, _, _ := setupDashboard(t, entity.RoleManager)

	if user, ok := d.Session.User(); !ok || user.FullName != "Sam Site" {
		t.Fatalf("unexpected session %+v", user)
	}
	if !d.Session.Can(entity.CapModify) {
		t.Error("manager should be able to modify")
	}
	if d.Store.Categories.Len() != 2 || d.Store.Materials.Len() != 2 {
		t.Errorf("collections not loaded: %d categories, %d materials", d.Store.Categories.Len(), d.Store.Materials.Len())
	}

	d.Logout()
	if _, ok := d.Session.User(); ok || d.Store.Materials.Len() != 0 || d.API.Token() != "" {
		t.Error("logout should clear the session and the store")
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	d, _, _ := setupDashboard(t, entity.RoleEmployee)

	hits := d.Store.Materials.Search("cement")
	if len(hits) != 1 || hits[0].Name != "Type I Portland Cement" {
		t.Errorf("expected cement hit, got %+v", hits)
	}
	if got := d.Store.Categories.Search("WIRING"); len(got) != 1 || got[0].ID != "c2" {
		t.Errorf("description search failed: %+v", got)
	}
	if got := d.Store.Materials.Search(""); len(got) != 2 {
		t.Errorf("empty query should return all, got %d", len(got))
	}
}

func TestDeleteRemovesWithoutRefetch(t *testing.T) {
	d, api, notifier := setupDashboard(t, entity.RoleManager)
	ctx := context.Background()
	gets := api.count("GET", "/api/categories.php")

	confirm, err := d.Store.Categories.ConfirmDelete("c1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirm.Title != "Delete Category" || confirm.Message == "" {
		t.Errorf("unexpected confirmation %q / %q", confirm.Title, confirm.Message)
	}
	if api.count("DELETE", "/api/categories.php") != 0 {
		t.Fatal("delete sent before confirmation")
	}

	if err := confirm.Confirm(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := d.Store.Categories.Find("c1"); ok {
		t.Error("deleted category still listed")
	}
	if len(d.Store.Categories.Search("masonry")) != 0 {
		t.Error("deleted category still found by search")
	}
	if api.count("GET", "/api/categories.php") != gets {
		t.Error("delete should not refetch the list")
	}
	if !errors.Is(confirm.Confirm(ctx), ErrConfirmationClosed) {
		t.Error("a confirmation answers once")
	}
	if len(notifier.successes) == 0 {
		t.Error("expected a success notification")
	}

	cancelled, _ := d.Store.Categories.ConfirmDelete("c2")
	cancelled.Cancel()
	if !errors.Is(cancelled.Confirm(ctx), ErrConfirmationClosed) || d.Store.Categories.Len() != 1 {
		t.Error("cancelled confirmation must not delete")
	}
}

func TestUserListsStayInSync(t *testing.T) {
	d, api, _ := setupDashboard(t, entity.RoleManager)
	ctx := context.Background()

	if len(d.Store.Employees.Search("eve")) != 1 || len(d.Store.Staff.Search("eve")) != 1 {
		t.Fatal("employee should be loaded in both lists")
	}
	confirm, err := d.Store.Staff.ConfirmDelete("e1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := confirm.Confirm(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := d.Store.Staff.Search("eve"); len(got) != 0 {
		t.Errorf("deleted user still in staff: %+v", got)
	}
	if got := d.Store.Employees.Search("eve"); len(got) != 0 {
		t.Errorf("deleted user still in employees: %+v", got)
	}

	if _, err := d.Store.Staff.Create(ctx, UserForm{Username: "rio", FullName: "Rio Carpenter", Role: entity.RoleEmployee, Password: "1234"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := d.Store.Employees.Find("u-new"); !ok {
		t.Error("new employee not added to employees")
	}
	if _, ok := d.Store.Staff.Find("u-new"); !ok {
		t.Error("new employee not added to staff")
	}
	if api.count("GET", "/api/users.php") != 2 {
		t.Errorf("sync must not refetch users, got %d loads", api.count("GET", "/api/users.php"))
	}
}

func TestSecretaryIsNotAnEmployee(t *testing.T) {
	d, _, _ := setupDashboard(t, entity.RoleManager)

	if _, err := d.Store.Staff.Create(context.Background(), UserForm{Username: "ana", FullName: "Ana Desk", Role: entity.RoleSecretary, Password: "1234"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := d.Store.Employees.Find("u-new"); ok {
		t.Error("secretary must not appear among employees")
	}
}

func TestCreateValidatesBeforeSending(t *testing.T) {
	d, api, notifier := setupDashboard(t, entity.RoleManager)
	ctx := context.Background()

	_, err := d.Store.Categories.Create(ctx, CategoryForm{Name: "   "})
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected invalid form, got %v", err)
	}
	if api.count("POST", "/api/categories.php") != 0 || notifier.errorCount() != 1 {
		t.Error("invalid form must not be sent")
	}

	created, err := d.Store.Categories.Create(ctx, CategoryForm{Name: "Plumbing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "c-new" {
		t.Errorf("expected server id, got %q", created.ID)
	}
	if _, ok := d.Store.Categories.Find("c-new"); !ok {
		t.Error("created category not appended")
	}
}

func TestFormValidationMessages(t *testing.T) {
	cases := []struct {
		name string
		form interface{}
		want string
	}{
		{"unit", MaterialForm{SubcategoryID: "s1", Name: "Sand", Unit: "buckets"}, "invalid form: unit must be one of"},
		{"role", UserForm{Username: "a", FullName: "A", Role: "owner", Password: "1234"}, "invalid form: role must be one of"},
		{"password", UserForm{Username: "a", FullName: "A", Role: "employee", Password: "12"}, "invalid form: password must be at least 4"},
		{"date", ToolForm{ToolBrand: "Bosch", SerialNumber: "X1", EntryDate: "01/02/2024"}, "invalid form: entryDate must be a YYYY-MM-DD date"},
		{"required", NoteForm{Title: "t", Content: "c"}, "invalid form: constructionSiteId is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateForm(tc.form)
			if err == nil || len(err.Error()) < len(tc.want) || err.Error()[:len(tc.want)] != tc.want {
				t.Errorf("expected %q prefix, got %v", tc.want, err)
			}
		})
	}
	if err := validateForm(MaterialForm{SubcategoryID: "s1", Name: "Sand", Unit: "cubic yards"}); err != nil {
		t.Errorf("valid material rejected: %v", err)
	}
}

func TestCheckOutOverStockSendsNothing(t *testing.T) {
	d, api, notifier := setupDashboard(t, entity.RoleEmployee)
	flow := d.NewTransactionFlow()

	if err := flow.Open("m1", entity.TxTypeCheckOut); err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err := flow.Submit(context.Background(), TransactionForm{Quantity: 6, Reason: "Slab", ConstructionSite: "North Tower"})
	if !errors.Is(err, entity.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if api.count("POST", "/api/transactions.php") != 0 {
		t.Error("request sent despite insufficient stock")
	}
	if flow.State() != StateFormOpen || flow.Form().Quantity != 6 {
		t.Error("form should stay open with its input")
	}
	if notifier.errorCount() == 0 {
		t.Error("expected an error notification")
	}
}

func TestCheckOutRequiresSite(t *testing.T) {
	d, api, _ := setupDashboard(t, entity.RoleEmployee)
	flow := d.NewTransactionFlow()
	flow.Open("m1", entity.TxTypeCheckOut)

	_, err := flow.Submit(context.Background(), TransactionForm{Quantity: 1, Reason: "Slab"})
	if !errors.Is(err, ErrInvalidForm) || api.count("POST", "/api/transactions.php") != 0 {
		t.Errorf("expected client-side rejection, got %v", err)
	}
}

func TestRoleGateOnOpen(t *testing.T) {
	d, _, _ := setupDashboard(t, entity.RoleSecretary)
	flow := d.NewTransactionFlow()

	if err := flow.Open("m1", entity.TxTypeCheckOut); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("secretary cannot withdraw, got %v", err)
	}
	if err := flow.Open("m1", entity.TxTypeCheckIn); err != nil {
		t.Errorf("secretary can add to stock, got %v", err)
	}
	if err := flow.Open("missing", entity.TxTypeCheckIn); !errors.Is(err, ErrUnknownMaterial) {
		t.Errorf("expected unknown material, got %v", err)
	}
}

func TestFailedSubmitKeepsStateAndKey(t *testing.T) {
	d, api, _ := setupDashboard(t, entity.RoleManager)
	api.failTx = 1
	flow := d.NewTransactionFlow()
	ctx := context.Background()

	if err := flow.Open("m1", entity.TxTypeCheckIn); err != nil {
		t.Fatalf("open: %v", err)
	}
	key := flow.Key()
	form := TransactionForm{Quantity: 10, Reason: "Delivery"}

	if _, err := flow.Submit(ctx, form); err == nil {
		t.Fatal("expected server failure")
	}
	if flow.State() != StateFormOpen {
		t.Errorf("expected form-open, got %s", flow.State())
	}
	if m, _ := d.Store.Materials.Find("m1"); m.CurrentStock != 5 || d.Store.Transactions.Len() != 0 {
		t.Error("failed submit must not change local state")
	}

	result, err := flow.Submit(ctx, form)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.NewStock != 15 || flow.State() != StateSubmitted {
		t.Errorf("unexpected result %+v in %s", result, flow.State())
	}
	if len(api.txKeys) != 2 || api.txKeys[0] != key || api.txKeys[1] != key {
		t.Errorf("retry must reuse the key %q, sent %v", key, api.txKeys)
	}

	m, _ := d.Store.Materials.Find("m1")
	if m.CurrentStock != 15 || m.Status != entity.StatusInStock {
		t.Errorf("material not patched: %+v", m)
	}
	txs := d.Store.Transactions.Items()
	if len(txs) != 1 || txs[0].ID != "t-"+key || txs[0].User != "Sam Site" {
		t.Errorf("transaction not prepended: %+v", txs)
	}

	flow.Close()
	if flow.State() != StateIdle || flow.Key() != "" {
		t.Error("close should reset the flow")
	}
}

func TestQRWizard(t *testing.T) {
	d, api, _ := setupDashboard(t, entity.RoleEmployee)
	ctx := context.Background()

	t.Run("unknown code stays on scan", func(t *testing.T) {
		w := d.NewQRWizard()
		err := w.Scan(ctx, "QR-NOPE-000")
		if !errors.Is(err, ErrMaterialNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if w.Step() != StepScan || w.Material() != nil {
			t.Error("wizard should stay on scan without a material")
		}
	})

	t.Run("zero stock blocks withdraw", func(t *testing.T) {
		w := d.NewQRWizard()
		if err := w.Scan(ctx, " QR-COPPER-WIRE-456 "); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if w.Step() != StepConfirm || w.Material().Name != "Copper Wire" {
			t.Fatal("confirm should be reachable")
		}
		if err := w.Proceed(); !errors.Is(err, ErrOutOfStock) {
			t.Errorf("expected out of stock, got %v", err)
		}
		if w.Step() != StepConfirm {
			t.Errorf("expected confirm, got %s", w.Step())
		}
	})

	t.Run("withdraw bounds and submit", func(t *testing.T) {
		w := d.NewQRWizard()
		w.Scan(ctx, "QR-TYPE-I-PORTLAND-CEMENT-123")
		if err := w.Proceed(); err != nil {
			t.Fatalf("proceed: %v", err)
		}
		if w.QRImageURL() == "" {
			t.Error("expected a QR image url")
		}

		before := api.count("POST", "/api/transactions.php")
		if _, err := w.Withdraw(ctx, WithdrawForm{Quantity: 6, ConstructionSite: "North", Reason: "Slab"}); !errors.Is(err, ErrInvalidForm) {
			t.Errorf("expected upper bound rejection, got %v", err)
		}
		if _, err := w.Withdraw(ctx, WithdrawForm{Quantity: 0, ConstructionSite: "North", Reason: "Slab"}); !errors.Is(err, ErrInvalidForm) {
			t.Errorf("expected lower bound rejection, got %v", err)
		}
		if _, err := w.Withdraw(ctx, WithdrawForm{Quantity: 2, Reason: "Slab"}); !errors.Is(err, ErrInvalidForm) {
			t.Errorf("expected site required, got %v", err)
		}
		if api.count("POST", "/api/transactions.php") != before {
			t.Fatal("invalid withdrawals must not be sent")
		}

		result, err := w.Withdraw(ctx, WithdrawForm{Quantity: 2, ConstructionSite: "North", Reason: "Slab"})
		if err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		if result.NewStock != 3 {
			t.Errorf("expected 3 left, got %d", result.NewStock)
		}
		if w.Step() != StepScan || w.Material() != nil {
			t.Error("wizard should reset after a withdrawal")
		}
		if m, _ := d.Store.Materials.Find("m1"); m.CurrentStock != 3 || m.Status != entity.StatusInStock {
			t.Errorf("store not patched: %+v", m)
		}
	})

	t.Run("cancel discards input", func(t *testing.T) {
		w := d.NewQRWizard()
		w.Scan(ctx, "QR-TYPE-I-PORTLAND-CEMENT-123")
		w.Proceed()
		before := api.count("POST", "/api/transactions.php")
		w.Cancel()
		if w.Step() != StepScan || w.Material() != nil {
			t.Error("cancel should return to scan")
		}
		if _, err := w.Withdraw(ctx, WithdrawForm{Quantity: 1, ConstructionSite: "North", Reason: "x"}); !errors.Is(err, ErrWrongStep) {
			t.Errorf("expected wrong step, got %v", err)
		}
		if api.count("POST", "/api/transactions.php") != before {
			t.Error("cancel must not record anything")
		}
	})
}

func TestQRWizardUsesScannedStock(t *testing.T) {
	d, api, _ := setupDashboard(t, entity.RoleEmployee)
	ctx := context.Background()

	// another device checked in 10 bags since the store loaded
	api.mu.Lock()
	api.materials[0].CurrentStock = 15
	api.mu.Unlock()

	w := d.NewQRWizard()
	if err := w.Scan(ctx, "QR-TYPE-I-PORTLAND-CEMENT-123"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if w.Material().CurrentStock != 15 {
		t.Fatalf("wizard shows %d", w.Material().CurrentStock)
	}
	if m, _ := d.Store.Materials.Find("m1"); m.CurrentStock != 15 {
		t.Errorf("store should hold the scanned stock, got %d", m.CurrentStock)
	}
	if err := w.Proceed(); err != nil {
		t.Fatalf("proceed: %v", err)
	}

	result, err := w.Withdraw(ctx, WithdrawForm{Quantity: 10, ConstructionSite: "North", Reason: "Slab"})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if result.NewStock != 5 || api.count("POST", "/api/transactions.php") != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if m, _ := d.Store.Materials.Find("m1"); m.CurrentStock != 5 {
		t.Errorf("store not patched: %d", m.CurrentStock)
	}
}
