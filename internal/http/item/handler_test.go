package item_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	handler "github.com/MrJamesThe3rd/recur/internal/http/item"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

func newRouter(t *testing.T) (http.Handler, *item.MockRepository) {
	t.Helper()

	repo := item.NewMockRepository(gomock.NewController(t))
	svc := item.NewService(repo, item.WithClock(func() time.Time {
		return time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	}))

	h := handler.NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/items", h.Routes)
	r.Route("/planned", h.PlannedRoutes)
	r.Route("/calendar", h.CalendarRoutes)

	return r, repo
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name  string
		body  string
		setup func(repo *item.MockRepository)
		want  int
	}

	tests := []testCase{
		{
			name: "Created",
			body: `{"name":"Gym","amount":"30","frequency":"weekly","billing_day":15}`,
			setup: func(repo *item.MockRepository) {
				repo.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(nil)
			},
			want: http.StatusCreated,
		},
		{
			name:  "Invalid amount",
			body:  `{"name":"Gym","amount":"-1","frequency":"weekly"}`,
			setup: func(repo *item.MockRepository) {},
			want:  http.StatusBadRequest,
		},
		{
			name:  "Invalid frequency",
			body:  `{"name":"Gym","amount":"30","frequency":"fortnightly"}`,
			setup: func(repo *item.MockRepository) {},
			want:  http.StatusBadRequest,
		},
		{
			name:  "Malformed body",
			body:  `{`,
			setup: func(repo *item.MockRepository) {},
			want:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t)
			tt.setup(repo)

			rec := serve(router, http.MethodPost, "/items/", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_List(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().ListItems(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, filter item.ListFilter) ([]*item.Item, error) {
			require.NotNil(t, filter.Frequency)
			assert.Equal(t, recurring.FrequencyMonthly, *filter.Frequency)

			return []*item.Item{
				{ID: uuid.New(), Name: "Netflix", RawAmount: decimal.RequireFromString("10.99"), Frequency: recurring.FrequencyMonthly},
				{ID: uuid.New(), Name: "Spotify", RawAmount: decimal.RequireFromString("11.99"), Frequency: recurring.FrequencyMonthly},
			}, nil
		},
	)

	rec := serve(router, http.MethodGet, "/items/?frequency=monthly", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items        []map[string]any `json:"items"`
		MonthlyTotal string           `json:"monthly_total"`
		AnnualTotal  string           `json:"annual_total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "22.98", resp.MonthlyTotal)
	assert.Equal(t, "275.76", resp.AnnualTotal)
}

func TestHandler_List_BadFrequency(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, http.MethodGet, "/items/?frequency=daily", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(nil, item.ErrNotFound)

	rec := serve(router, http.MethodGet, "/items/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/items/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Update(t *testing.T) {
	router, repo := newRouter(t)

	id := uuid.New()
	existing := &item.Item{ID: id, Name: "Gym", RawAmount: decimal.RequireFromString("30"), Frequency: recurring.FrequencyMonthly}

	repo.EXPECT().GetItem(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, it *item.Item) error {
			assert.Equal(t, "PureGym", it.Name)
			assert.True(t, it.ShiftWeekends)
			assert.True(t, decimal.RequireFromString("24.99").Equal(it.RawAmount))

			return nil
		},
	)

	rec := serve(router, http.MethodPatch, "/items/"+id.String(), `{"name":"PureGym","amount":"24.99","shift_weekends":true}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandler_Pause(t *testing.T) {
	router, repo := newRouter(t)

	id := uuid.New()

	repo.EXPECT().GetItem(gomock.Any(), id).Return(&item.Item{ID: id, Name: "Gym"}, nil)
	repo.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, it *item.Item) error {
			require.NotNil(t, it.PausedUntil)
			assert.Equal(t, time.March, it.PausedUntil.Month())

			return nil
		},
	)

	rec := serve(router, http.MethodPut, "/items/"+id.String()+"/pause", `{"until":"2025-03-31T00:00:00Z"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_Planned(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().CreatePlanned(gomock.Any(), gomock.Any()).Return(nil)

	rec := serve(router, http.MethodPost, "/planned/", `{"name":"Car service","amount":"180","date":"2025-03-20T00:00:00Z"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodPost, "/planned/", `{"name":"Car service","amount":"180"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "one-off needs a date")
}

func TestHandler_Calendar(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().ListItems(gomock.Any(), gomock.Any()).Return([]*item.Item{
		{ID: uuid.New(), Name: "Gym", RawAmount: decimal.RequireFromString("30"), Frequency: recurring.FrequencyMonthly, BillingDay: new(15)},
	}, nil)
	repo.EXPECT().ListPlanned(gomock.Any()).Return(nil, nil)

	rec := serve(router, http.MethodGet, "/calendar/?from=2025-03&months=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var views []struct {
		Month   string `json:"month"`
		Entries []struct {
			Name string `json:"name"`
			Day  int    `json:"day"`
		} `json:"entries"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))

	require.Len(t, views, 2)
	assert.Equal(t, "2025-03", views[0].Month)
	assert.Equal(t, "2025-04", views[1].Month)
	require.Len(t, views[0].Entries, 1)
	assert.Equal(t, 15, views[0].Entries[0].Day)
	assert.Equal(t, "30", views[0].Total)
}

func TestHandler_Calendar_BadParams(t *testing.T) {
	router, _ := newRouter(t)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/calendar/?from=March", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/calendar/?months=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/calendar/?months=25", "").Code)
}
