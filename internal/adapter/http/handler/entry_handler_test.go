package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/settleledger/internal/adapter/http/dto"
	"github.com/iho/settleledger/internal/domain"
	"github.com/iho/settleledger/internal/usecase"
)

type planServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreatePlanInput) (*usecase.Plan, error)
}

func (s *planServiceStub) CreatePlan(ctx context.Context, input usecase.CreatePlanInput) (*usecase.Plan, error) {
	return s.createFn(ctx, input)
}

type entryServiceStub struct {
	getFn        func(ctx context.Context, id string) (*usecase.EntryView, error)
	listFn       func(ctx context.Context, input usecase.ListEntriesInput) ([]*usecase.EntryView, error)
	listByPlanFn func(ctx context.Context, planID string) ([]*domain.Entry, error)
	linesFn      func(ctx context.Context, entryID string) ([]*domain.LedgerLine, error)
	auditFn      func(ctx context.Context, entryID string, limit, offset int) ([]*domain.AuditLog, error)
	cancelFn     func(ctx context.Context, id string) (*domain.Entry, error)
}

func (s *entryServiceStub) Get(ctx context.Context, id string) (*usecase.EntryView, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) List(ctx context.Context, input usecase.ListEntriesInput) ([]*usecase.EntryView, error) {
	return s.listFn(ctx, input)
}

func (s *entryServiceStub) ListByPlan(ctx context.Context, planID string) ([]*domain.Entry, error) {
	return s.listByPlanFn(ctx, planID)
}

func (s *entryServiceStub) ListLedgerLines(ctx context.Context, entryID string) ([]*domain.LedgerLine, error) {
	return s.linesFn(ctx, entryID)
}

func (s *entryServiceStub) ListAuditTrail(ctx context.Context, entryID string, limit, offset int) ([]*domain.AuditLog, error) {
	return s.auditFn(ctx, entryID, limit, offset)
}

func (s *entryServiceStub) CancelEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.cancelFn(ctx, id)
}

func installment(id string, index int, due time.Time) *domain.Entry {
	return &domain.Entry{
		ID:               id,
		CompanyID:        "company-1",
		Kind:             domain.EntryKindPayable,
		CounterpartyID:   "supplier-1",
		Value:            decimal.NewFromInt(100),
		DueDate:          due,
		Status:           domain.EntryStatusPending,
		InstallmentIndex: index,
		InstallmentCount: 3,
		PlanID:           "plan-1",
	}
}

func TestEntryHandler_CreatePlan(t *testing.T) {
	var captured usecase.CreatePlanInput
	handler := NewEntryHandler(&planServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePlanInput) (*usecase.Plan, error) {
			captured = input
			return &usecase.Plan{ID: "plan-1", Entries: []*domain.Entry{
				installment("e1", 1, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)),
				installment("e2", 2, time.Date(2024, 2, 6, 0, 0, 0, 0, time.UTC)),
				installment("e3", 3, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)),
			}}, nil
		},
	}, &entryServiceStub{}, handlerNow)

	body := `{"company_id":"company-1","kind":"payable","counterparty_id":"supplier-1","total":"300.00",` +
		`"first_due_date":"2024-01-01","installment_count":3,"day_offset":5}`
	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.CreatePlan(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Kind != domain.EntryKindPayable || captured.InstallmentCount != 3 || *captured.DayOffset != 5 {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PlanID != "plan-1" || len(resp.Entries) != 3 {
		t.Fatalf("unexpected plan %+v", resp)
	}
	if resp.Entries[0].DisplayStatus != "overdue" || resp.Entries[1].DisplayStatus != "pending" {
		t.Fatalf("statuses not derived from clock: %s, %s", resp.Entries[0].DisplayStatus, resp.Entries[1].DisplayStatus)
	}
}

func TestEntryHandler_CreatePlan_Validation(t *testing.T) {
	handler := NewEntryHandler(&planServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePlanInput) (*usecase.Plan, error) {
			return nil, domain.ErrInvalidInstallmentCount
		},
	}, &entryServiceStub{}, handlerNow)

	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBufferString(`{"installment_count":0}`))
	rec := httptest.NewRecorder()

	handler.CreatePlan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_GetPlan(t *testing.T) {
	handler := NewEntryHandler(nil, &entryServiceStub{
		listByPlanFn: func(ctx context.Context, planID string) ([]*domain.Entry, error) {
			if planID == "plan-1" {
				return []*domain.Entry{installment("e1", 1, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))}, nil
			}
			return nil, nil
		},
	}, handlerNow)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/plans/plan-1", nil), "id", "plan-1")
	rec := httptest.NewRecorder()
	handler.GetPlan(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/plans/none", nil), "id", "none")
	rec = httptest.NewRecorder()
	handler.GetPlan(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntryHandler_List(t *testing.T) {
	handler := NewEntryHandler(nil, &entryServiceStub{
		listFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*usecase.EntryView, error) {
			if input.CompanyID != "company-1" || input.Status != "overdue" || input.Kind != domain.EntryKindReceivable {
				t.Fatalf("unexpected input %+v", input)
			}
			if input.DueFrom == nil || input.DueFrom.Month() != time.January || input.DueTo != nil {
				t.Fatalf("unexpected due window %v %v", input.DueFrom, input.DueTo)
			}
			if input.Limit != 5 || input.Offset != 10 {
				t.Fatalf("unexpected paging %d/%d", input.Limit, input.Offset)
			}
			e := installment("e1", 1, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))
			return []*usecase.EntryView{{
				Entry:         e,
				DisplayStatus: domain.DisplayStatusOverdue,
				Remaining:     e.Value,
			}}, nil
		},
	}, handlerNow)

	req := httptest.NewRequest(http.MethodGet, "/entries?company_id=company-1&kind=receivable&status=overdue&from=2024-01-01&limit=5&offset=10", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Entries[0].DisplayStatus != "overdue" || resp.Entries[0].Remaining == nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestEntryHandler_List_BadDate(t *testing.T) {
	handler := NewEntryHandler(nil, &entryServiceStub{}, handlerNow)

	req := httptest.NewRequest(http.MethodGet, "/entries?company_id=c1&to=yesterday", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Get_NotFound(t *testing.T) {
	handler := NewEntryHandler(nil, &entryServiceStub{
		getFn: func(ctx context.Context, id string) (*usecase.EntryView, error) {
			return nil, domain.ErrEntryNotFound
		},
	}, handlerNow)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/entries/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntryHandler_ListLedgerLines(t *testing.T) {
	handler := NewEntryHandler(nil, &entryServiceStub{
		linesFn: func(ctx context.Context, entryID string) ([]*domain.LedgerLine, error) {
			return []*domain.LedgerLine{
				{ID: "l1", EntryID: entryID, Amount: decimal.NewFromInt(30)},
				{ID: "l2", EntryID: entryID, Amount: decimal.NewFromInt(70)},
			}, nil
		},
	}, handlerNow)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/entries/e1/ledger-lines", nil), "id", "e1")
	rec := httptest.NewRecorder()

	handler.ListLedgerLines(rec, req)

	var lines []dto.LedgerLineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &lines); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || len(lines) != 2 {
		t.Fatalf("unexpected response %d %+v", rec.Code, lines)
	}
}

func TestEntryHandler_ListAuditTrail(t *testing.T) {
	handler := NewEntryHandler(nil, &entryServiceStub{
		auditFn: func(ctx context.Context, entryID string, limit, offset int) ([]*domain.AuditLog, error) {
			if limit != 50 || offset != 0 {
				t.Fatalf("unexpected paging %d/%d", limit, offset)
			}
			return []*domain.AuditLog{{ID: "a1", ResourceID: entryID, Action: string(domain.AuditActionSettlementApply)}}, nil
		},
	}, handlerNow)

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/entries/e1/audit", nil), "id", "e1")
	rec := httptest.NewRecorder()

	handler.ListAuditTrail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEntryHandler_Cancel(t *testing.T) {
	cancelled := installment("e1", 1, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))
	cancelled.Status = domain.EntryStatusCancelled

	handler := NewEntryHandler(nil, &entryServiceStub{
		cancelFn: func(ctx context.Context, id string) (*domain.Entry, error) {
			return cancelled, nil
		},
	}, handlerNow)

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/entries/e1/cancel", nil), "id", "e1")
	rec := httptest.NewRecorder()
	handler.Cancel(rec, withRole(req, domain.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Cancel(rec, withRole(req, domain.RoleOperator))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operator, got %d", rec.Code)
	}
}
