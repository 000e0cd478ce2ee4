package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/dto"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/middleware"
	testhelpers "github.com/bernardito-luis/eurodelivery/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func withActor(actor model.Actor) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.ActorContextKey, actor)
	}
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", resp.Body.String(), err)
	}
	return body.Error
}

func TestCurrentActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentActor(c); got.UserID != 0 {
		t.Fatalf("expected zero actor when not set, got %+v", got)
	}

	c.Set(middleware.ActorContextKey, model.Actor{UserID: 42, IsSuperuser: true})
	if got := CurrentActor(c); got.UserID != 42 || !got.IsSuperuser {
		t.Fatalf("unexpected actor %+v", got)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: price: bad", domainErrors.ErrValidation), http.StatusBadRequest},
		{domainErrors.ErrPermissionDenied, http.StatusForbidden},
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: smtp down", domainErrors.ErrDelivery), http.StatusBadGateway},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			var recorded []*gin.Error
			resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) {
				writeError(c, tt.err)
				recorded = c.Errors
			}, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			msg := decodeError(t, resp)
			if tt.status == http.StatusInternalServerError {
				if msg != http.StatusText(http.StatusInternalServerError) {
					t.Fatalf("internal details leaked: %q", msg)
				}
				if len(recorded) != 1 {
					t.Fatalf("expected error to be recorded for logging, got %d", len(recorded))
				}
				return
			}
			if msg != tt.err.Error() {
				t.Fatalf("unexpected message %q", msg)
			}
		})
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	email := testhelpers.RandomEmail()
	password := testhelpers.RandomString(24)
	body, _ := json.Marshal(dto.AuthRequest{Email: email, Password: password})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(ctx context.Context, gotEmail, gotPassword string) (string, error) {
		if gotEmail != email || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q", gotEmail, gotPassword)
		}
		return "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
	result := resp.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	foundCookie := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "eurodelivery_token" {
			if cookie.Value != "session-token" {
				t.Fatalf("unexpected token stored in cookie: %q", cookie.Value)
			}
			if !cookie.HttpOnly {
				t.Fatal("expected http-only cookie")
			}
			foundCookie = true
		}
	}
	if !foundCookie {
		t.Fatal("expected auth cookie named eurodelivery_token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "empty credentials", body: []byte(`{"email":"","password":""}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusBadRequest},
		{name: "invalid email", body: []byte(`{"email":"nope","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", fmt.Errorf("%w: email", domainErrors.ErrValidation)
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"email":"a@b.c","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"email":"a@b.c","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(tt.facade).Register, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if resp.Header().Get("Authorization") != "" {
				t.Fatal("token must not be issued on failure")
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Email: "user@example.com", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("unexpected authorization header %q", resp.Header().Get("Authorization"))
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "invalid", body: []byte(`{"email":"a@b.c","password":"b"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized},
		{name: "internal", body: []byte(`{"email":"a@b.c","password":"b"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(tt.facade).Login, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerPlace(t *testing.T) {
	actor := model.Actor{UserID: 3, Email: "u@example.com"}
	var (
		gotInput model.OrderInput
		gotItems []model.ProductInput
	)
	facade := testhelpers.OrderFacadeStub{PlaceOrderFn: func(_ context.Context, a model.Actor, input model.OrderInput, items []model.ProductInput) (*model.PurchaseOrder, error) {
		if a != actor {
			t.Fatalf("unexpected actor %+v", a)
		}
		gotInput, gotItems = input, items
		return &model.PurchaseOrder{ID: 11, Status: model.StatusOrdered}, nil
	}}
	body := []byte(`{
		"shipping_cost": 5,
		"discount": "1.50",
		"coupon": "SPRING",
		"user_comment": "asap",
		"products": [
			{"product_link": "https://shop/p/1", "color": "red", "size": "M", "quantity": 2, "price": "10.00", "discount_in_shop": ""},
			{"product_link": "https://shop/p/2", "color": "blue", "size": "L", "quantity": "1", "price": 3.5}
		]
	}`)
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Place, withActor(actor), body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created dto.OrderCreatedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID != 11 || created.Status != int16(model.StatusOrdered) || created.StatusName != model.StatusOrdered.String() {
		t.Fatalf("unexpected response %+v", created)
	}

	if gotInput.ShippingCost != "5" || gotInput.Discount != "1.50" || gotInput.Coupon != "SPRING" || gotInput.UserComment != "asap" || gotInput.IsDraft {
		t.Fatalf("unexpected order input %+v", gotInput)
	}
	if len(gotItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(gotItems))
	}
	if gotItems[0].Quantity != "2" || gotItems[0].Price != "10.00" {
		t.Fatalf("unexpected first item %+v", gotItems[0])
	}
	if gotItems[0].DiscountInShop == nil || *gotItems[0].DiscountInShop != "" {
		t.Fatalf("expected empty discount_in_shop to be present, got %v", gotItems[0].DiscountInShop)
	}
	if gotItems[1].DiscountInShop != nil {
		t.Fatalf("expected absent discount_in_shop to be nil, got %q", *gotItems[1].DiscountInShop)
	}
	if gotItems[1].Quantity != "1" || gotItems[1].Price != "3.5" {
		t.Fatalf("unexpected second item %+v", gotItems[1])
	}
}

func TestOrderHandlerPlaceFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("{"), status: http.StatusBadRequest},
		{name: "bad value type", body: []byte(`{"shipping_cost": true}`), status: http.StatusBadRequest},
		{name: "validation", err: fmt.Errorf("%w: products[0].price", domainErrors.ErrValidation), body: []byte(`{}`), status: http.StatusBadRequest},
		{name: "delivery", err: domainErrors.ErrDelivery, body: []byte(`{}`), status: http.StatusBadGateway},
		{name: "internal", err: errors.New("boom"), body: []byte(`{}`), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.OrderFacadeStub{PlaceOrderFn: func(context.Context, model.Actor, model.OrderInput, []model.ProductInput) (*model.PurchaseOrder, error) {
				if tt.err == nil {
					t.Fatal("facade must not be called")
				}
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Place, withActor(model.Actor{UserID: 1}), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerList(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotTab string
	facade := testhelpers.OrderFacadeStub{OrdersFn: func(_ context.Context, _ model.Actor, tab string) ([]model.OrderSummary, error) {
		gotTab = tab
		return []model.OrderSummary{
			{
				Order:        model.PurchaseOrder{ID: 2, Status: model.StatusCanceled, ShippingCost: decimal.RequireFromString("5"), Fee: decimal.RequireFromString("2.5"), CreatedAt: created},
				ProductQty:   3,
				ComplexPrice: decimal.RequireFromString("27.5"),
			},
		}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", "/orders?tab=archive", NewOrderHandler(facade).List, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotTab != model.TabArchive {
		t.Fatalf("expected tab %q, got %q", model.TabArchive, gotTab)
	}

	var decoded []dto.OrderResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 order, got %d", len(decoded))
	}
	got := decoded[0]
	if got.ComplexPrice != "27.50" || got.ShippingCost != "5.00" || got.Fee != "2.50" || got.ProductQty != 3 {
		t.Fatalf("unexpected money fields %+v", got)
	}
	if !got.Archived || got.StatusName != model.StatusCanceled.String() || got.StatusDescription == "" {
		t.Fatalf("unexpected status fields %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at %v", got.CreatedAt)
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, model.Actor, string) ([]model.OrderSummary, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(facade).List, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestOrderHandlerListUnknownTab(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, model.Actor, string) ([]model.OrderSummary, error) {
		return nil, fmt.Errorf("%w: unknown tab", domainErrors.ErrNotFound)
	}}
	resp := performRequest(t, http.MethodGet, "/orders", "/orders?tab=trash", NewOrderHandler(facade).List, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestOrderHandlerDetails(t *testing.T) {
	orderID := int64(9)
	facade := testhelpers.OrderFacadeStub{OrderDetailsFn: func(_ context.Context, _ model.Actor, id int64) (*model.OrderDetails, error) {
		if id != orderID {
			t.Fatalf("unexpected id %d", id)
		}
		return &model.OrderDetails{
			Order: model.PurchaseOrder{ID: id, Status: model.StatusOrdered, AdminComment: "check size"},
			Products: []model.Product{{
				ID:             1,
				OrderID:        &orderID,
				ShopLink:       "https://shop.example",
				ProductLink:    "https://shop.example/p/1",
				Quantity:       2,
				Price:          decimal.RequireFromString("10"),
				DiscountInShop: decimal.RequireFromString("1"),
			}},
			History:      []model.StatusLog{{ID: 1, OrderID: id, Status: model.StatusOrdered, CreatedAt: time.Unix(0, 0).UTC()}},
			ComplexPrice: decimal.RequireFromString("19"),
		}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/9", NewOrderHandler(facade).Details, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var decoded dto.OrderDetailsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != orderID || decoded.ProductQty != 1 || decoded.ComplexPrice != "19.00" || decoded.AdminComment != "check size" {
		t.Fatalf("unexpected order part %+v", decoded.OrderResponse)
	}
	if len(decoded.Products) != 1 || decoded.Products[0].SumPrice != "19.00" || decoded.Products[0].ShopLinkTrimmed != "https://shop.example" {
		t.Fatalf("unexpected products %+v", decoded.Products)
	}
	if len(decoded.History) != 1 || decoded.History[0].StatusName != model.StatusOrdered.String() {
		t.Fatalf("unexpected history %+v", decoded.History)
	}
}

func TestOrderHandlerDetailsFailures(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "non numeric id", target: "/orders/abc", status: http.StatusNotFound},
		{name: "zero id", target: "/orders/0", status: http.StatusNotFound},
		{name: "missing", target: "/orders/5", err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "foreign", target: "/orders/5", err: domainErrors.ErrPermissionDenied, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.OrderFacadeStub{OrderDetailsFn: func(context.Context, model.Actor, int64) (*model.OrderDetails, error) {
				if tt.err == nil {
					t.Fatal("facade must not be called")
				}
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodGet, "/orders/:id", tt.target, NewOrderHandler(facade).Details, withActor(model.Actor{UserID: 1}), nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerHistory(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{}
	resp := performRequest(t, http.MethodGet, "/orders/:id/history", "/orders/4/history", NewOrderHandler(facade).History, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.StatusLogResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Status != int16(model.StatusOrdered) {
		t.Fatalf("unexpected history %+v", decoded)
	}
}

func TestOrderHandlerAddProduct(t *testing.T) {
	var got model.ProductInput
	facade := testhelpers.OrderFacadeStub{AddProductFn: func(_ context.Context, _ model.Actor, id int64, item model.ProductInput) (*model.Product, error) {
		got = item
		return &model.Product{ID: 5, OrderID: &id, ProductLink: item.ProductLink, Quantity: 1, Price: decimal.RequireFromString("4")}, nil
	}}
	body := []byte(`{"product_link":"https://shop/p","color":"black","size":"S","quantity":1,"price":4,"discount_in_shop":null}`)
	resp := performRequest(t, http.MethodPost, "/orders/:id/products", "/orders/3/products", NewOrderHandler(facade).AddProduct, withActor(model.Actor{UserID: 1}), body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if got.ProductLink != "https://shop/p" || got.Quantity != "1" || got.Price != "4" {
		t.Fatalf("unexpected product input %+v", got)
	}
	var decoded dto.ProductResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.ID != 5 || decoded.Price != "4.00" || decoded.SumPrice != "4.00" {
		t.Fatalf("unexpected product response %+v", decoded)
	}
}

func TestOrderHandlerAddProductFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
	}{
		{name: "bad json", body: []byte("x"), status: http.StatusBadRequest},
		{name: "archived", body: []byte(`{}`), err: domainErrors.ErrPermissionDenied, status: http.StatusForbidden},
		{name: "validation", body: []byte(`{}`), err: domainErrors.ErrValidation, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.OrderFacadeStub{AddProductFn: func(context.Context, model.Actor, int64, model.ProductInput) (*model.Product, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/orders/:id/products", "/orders/3/products", NewOrderHandler(facade).AddProduct, withActor(model.Actor{UserID: 1}), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestOrderHandlerDeleteAndRestore(t *testing.T) {
	var deleted, restored int64
	facade := testhelpers.OrderFacadeStub{
		SoftDeleteFn: func(_ context.Context, _ model.Actor, id int64) error {
			deleted = id
			return nil
		},
		RestoreAsDraftFn: func(_ context.Context, _ model.Actor, id int64) error {
			restored = id
			return nil
		},
	}
	handler := NewOrderHandler(facade)

	resp := performRequest(t, http.MethodPost, "/orders/:id/delete", "/orders/8/delete", handler.Delete, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusNoContent || deleted != 8 {
		t.Fatalf("unexpected delete result: status %d id %d", resp.Code, deleted)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/restore", "/orders/8/restore", handler.Restore, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusNoContent || restored != 8 {
		t.Fatalf("unexpected restore result: status %d id %d", resp.Code, restored)
	}
}

func TestOrderHandlerDeleteFailures(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{
		SoftDeleteFn: func(context.Context, model.Actor, int64) error {
			return fmt.Errorf("%w: smtp", domainErrors.ErrDelivery)
		},
		RestoreAsDraftFn: func(context.Context, model.Actor, int64) error {
			return domainErrors.ErrPermissionDenied
		},
	}
	handler := NewOrderHandler(facade)

	resp := performRequest(t, http.MethodPost, "/orders/:id/delete", "/orders/8/delete", handler.Delete, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodPost, "/orders/:id/restore", "/orders/8/restore", handler.Restore, withActor(model.Actor{UserID: 1}), nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestOrderHandlerStatuses(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/statuses", "/statuses", NewOrderHandler(testhelpers.OrderFacadeStub{}).Statuses, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded []dto.StatusResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != len(model.Statuses()) {
		t.Fatalf("expected %d statuses, got %d", len(model.Statuses()), len(decoded))
	}
	if decoded[0].ID != 1 || decoded[0].Name == "" || decoded[0].Description == "" {
		t.Fatalf("unexpected first status %+v", decoded[0])
	}
}

func TestAdminHandlerChangeStatus(t *testing.T) {
	admin := model.Actor{UserID: 1, IsSuperuser: true}
	var (
		gotID     int64
		gotStatus model.Status
	)
	facade := testhelpers.AdminFacadeStub{ChangeStatusFn: func(_ context.Context, a model.Actor, id int64, status model.Status) error {
		if !a.IsSuperuser {
			t.Fatal("expected superuser actor")
		}
		gotID, gotStatus = id, status
		return nil
	}}
	resp := performRequest(t, http.MethodPut, "/orders/:id/status", "/orders/6/status", NewAdminHandler(facade).ChangeStatus, withActor(admin), []byte(`{"status":4}`), jsonHeaders)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	if gotID != 6 || gotStatus != model.Status(4) {
		t.Fatalf("unexpected call id=%d status=%d", gotID, gotStatus)
	}

	resp = performRequest(t, http.MethodPut, "/orders/:id/status", "/orders/6/status", NewAdminHandler(facade).ChangeStatus, withActor(admin), []byte(`{"name":"received_to_stock"}`), jsonHeaders)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for named status, got %d", resp.Code)
	}
	if gotStatus != model.StatusReceivedToStock {
		t.Fatalf("expected received to stock, got %d", gotStatus)
	}
}

func TestAdminHandlerChangeStatusFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
	}{
		{name: "bad json", body: []byte(`{"status":"x"}`), status: http.StatusBadRequest},
		{name: "unknown status", body: []byte(`{"status":42}`), err: domainErrors.ErrValidation, status: http.StatusBadRequest},
		{name: "unknown status name", body: []byte(`{"name":"shipped"}`), status: http.StatusBadRequest},
		{name: "missing order", body: []byte(`{"status":2}`), err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "delivery", body: []byte(`{"status":2}`), err: domainErrors.ErrDelivery, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.AdminFacadeStub{ChangeStatusFn: func(context.Context, model.Actor, int64, model.Status) error {
				return tt.err
			}}
			resp := performRequest(t, http.MethodPut, "/orders/:id/status", "/orders/6/status", NewAdminHandler(facade).ChangeStatus, withActor(model.Actor{UserID: 1, IsSuperuser: true}), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAdminHandlerUpdateComment(t *testing.T) {
	var got string
	facade := testhelpers.AdminFacadeStub{UpdateAdminCommentFn: func(_ context.Context, _ model.Actor, _ int64, comment string) error {
		got = comment
		return nil
	}}
	handler := NewAdminHandler(facade)
	resp := performRequest(t, http.MethodPut, "/orders/:id/comment", "/orders/6/comment", handler.UpdateComment, withActor(model.Actor{UserID: 1, IsSuperuser: true}), []byte(`{"admin_comment":"paid"}`), jsonHeaders)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	if got != "paid" {
		t.Fatalf("unexpected comment %q", got)
	}

	failing := NewAdminHandler(testhelpers.AdminFacadeStub{UpdateAdminCommentFn: func(context.Context, model.Actor, int64, string) error {
		return domainErrors.ErrNotFound
	}})
	resp = performRequest(t, http.MethodPut, "/orders/:id/comment", "/orders/6/comment", failing.UpdateComment, withActor(model.Actor{UserID: 1, IsSuperuser: true}), []byte(`{"admin_comment":"paid"}`), jsonHeaders)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

var _ TrackerFacade = testhelpers.TrackerFacadeStub{}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/health", "/health", NewHealthHandler(testhelpers.HealthCheckerStub{}).Check, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body dto.HealthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil || body.Status != "ok" {
		t.Fatalf("unexpected body %q err=%v", resp.Body.String(), err)
	}

	down := NewHealthHandler(testhelpers.HealthCheckerStub{Err: errors.New("connection refused")})
	resp = performRequest(t, http.MethodGet, "/health", "/health", down.Check, nil, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != "storage unavailable" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestAuthHandlerProfile(t *testing.T) {
	actor := model.Actor{UserID: 4, Email: "anna@example.com"}
	facade := testhelpers.AuthFacadeStub{ProfileFn: func(_ context.Context, a model.Actor) (*model.User, error) {
		return &model.User{ID: a.UserID, Email: a.Email, FirstName: "Anna", LastName: "Berg"}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/user", "/user", NewAuthHandler(facade).Profile, withActor(actor), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body dto.ProfileResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 4 || body.Email != "anna@example.com" || body.FirstName != "Anna" || body.LastName != "Berg" {
		t.Fatalf("unexpected profile %+v", body)
	}
}

func TestAuthHandlerUpdateProfile(t *testing.T) {
	var got model.ProfileInput
	facade := testhelpers.AuthFacadeStub{UpdateProfileFn: func(_ context.Context, a model.Actor, input model.ProfileInput) (*model.User, error) {
		got = input
		return &model.User{ID: a.UserID, Email: input.Email, FirstName: input.FirstName, LastName: input.LastName}, nil
	}}
	handler := NewAuthHandler(facade)
	body := []byte(`{"email":"new@example.com","first_name":"Anna","last_name":"Berg"}`)
	resp := performRequest(t, http.MethodPut, "/user", "/user", handler.UpdateProfile, withActor(model.Actor{UserID: 4}), body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got.Email != "new@example.com" || got.FirstName != "Anna" || got.LastName != "Berg" {
		t.Fatalf("unexpected input %+v", got)
	}

	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
	}{
		{name: "bad json", body: []byte(`{`), status: http.StatusBadRequest},
		{name: "invalid email", body: []byte(`{"email":"x"}`), err: domainErrors.ErrValidation, status: http.StatusBadRequest},
		{name: "email taken", body: []byte(`{"email":"taken@example.com"}`), err: domainErrors.ErrAlreadyExists, status: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failing := testhelpers.AuthFacadeStub{UpdateProfileFn: func(context.Context, model.Actor, model.ProfileInput) (*model.User, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPut, "/user", "/user", NewAuthHandler(failing).UpdateProfile, withActor(model.Actor{UserID: 4}), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerChangePassword(t *testing.T) {
	var got model.PasswordChange
	facade := testhelpers.AuthFacadeStub{ChangePasswordFn: func(_ context.Context, _ model.Actor, change model.PasswordChange) error {
		got = change
		if change.New != change.Confirm {
			return fmt.Errorf("%w: passwords do not match", domainErrors.ErrValidation)
		}
		return nil
	}}
	handler := NewAuthHandler(facade)

	body := []byte(`{"old_password":"old","new_password":"next","confirm_new_password":"next"}`)
	resp := performRequest(t, http.MethodPut, "/user/password", "/user/password", handler.ChangePassword, withActor(model.Actor{UserID: 4}), body, jsonHeaders)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	if got.Current != "old" || got.New != "next" || got.Confirm != "next" {
		t.Fatalf("unexpected change %+v", got)
	}

	body = []byte(`{"old_password":"old","new_password":"next","confirm_new_password":"other"}`)
	resp = performRequest(t, http.MethodPut, "/user/password", "/user/password", handler.ChangePassword, withActor(model.Actor{UserID: 4}), body, jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != "validation failed: passwords do not match" {
		t.Fatalf("unexpected error %q", msg)
	}

	resp = performRequest(t, http.MethodPut, "/user/password", "/user/password", handler.ChangePassword, withActor(model.Actor{UserID: 4}), []byte(`[]`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad json, got %d", resp.Code)
	}
}

func TestBadRequestOversizedBody(t *testing.T) {
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{})
	router := gin.New()
	router.POST("/register", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 16)
		handler.Register(c)
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte(`{"email":"someone@example.com","password":"secret"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", resp.Code)
	}
}
