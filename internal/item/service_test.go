package item_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

var today = time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestService_Create(t *testing.T) {
	type args struct {
		params item.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *item.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: item.CreateParams{Name: " Gym ", Amount: dec("30.005"), Frequency: recurring.FrequencyMonthly},
			},
			setupMock: func(m *item.MockRepository) {
				m.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, it *item.Item) error {
						assert.Equal(t, "Gym", it.Name)
						assert.Equal(t, recurring.CategoryOther, it.Category)
						assert.True(t, dec("30.01").Equal(it.RawAmount))
						it.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name: "Non-positive amount",
			args: args{
				params: item.CreateParams{Name: "Gym", Amount: decimal.Zero},
			},
			wantErr: recurring.ErrInvalidAmount,
		},
		{
			name: "RepoError",
			args: args{
				params: item.CreateParams{Name: "Gym", Amount: dec("30")},
			},
			setupMock: func(m *item.MockRepository) {
				m.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := item.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := item.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, recurring.ErrInvalidAmount) {
					assert.ErrorIs(t, err, recurring.ErrInvalidAmount)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Confirm(t *testing.T) {
	netflix := &item.Item{ID: uuid.New(), Name: "Netflix", RawAmount: dec("10.00"), Frequency: recurring.FrequencyMonthly}
	gym := &item.Item{ID: uuid.New(), Name: "PureGym", RawAmount: dec("24.99"), Frequency: recurring.FrequencyMonthly}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	itx := item.NewMockConfirmTx(ctrl)
	aliases := item.NewMockAliasSource(ctrl)

	aliases.EXPECT().
		Aliases(gomock.Any()).
		Return(map[string][]string{"puregym": {"PURE GYM LTD"}}, nil)

	repo.EXPECT().BeginConfirm(gomock.Any()).Return(itx, nil)
	itx.EXPECT().ListItems(gomock.Any()).Return([]*item.Item{netflix, gym}, nil)
	itx.EXPECT().
		CreateItems(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []*item.Item) error {
			require.Len(t, items, 2)
			assert.Equal(t, "Spotify", items[0].Name)
			assert.Equal(t, "Netflix", items[1].Name)

			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	svc := item.NewService(repo, item.WithAliases(aliases))

	res, err := svc.Confirm(context.Background(), []item.CreateParams{
		{Name: "netflix", Amount: dec("10.50"), Frequency: recurring.FrequencyMonthly},
		{Name: "Spotify", Amount: dec("9.99"), Frequency: recurring.FrequencyMonthly},
		{Name: "SPOTIFY", Amount: dec("10.20"), Frequency: recurring.FrequencyMonthly},
		{Name: "Pure Gym Ltd", Amount: dec("25.99"), Frequency: recurring.FrequencyMonthly},
		{Name: "Netflix", Amount: dec("17.99"), Frequency: recurring.FrequencyMonthly},
	})
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	require.Len(t, res.Skipped, 3)
	assert.Same(t, netflix, res.Skipped[0].Existing)
	assert.Same(t, res.Created[0], res.Skipped[1].Existing, "duplicates within the batch are caught too")
	assert.Same(t, gym, res.Skipped[2].Existing, "alias counts as the same name")
}

func TestService_Confirm_Errors(t *testing.T) {
	t.Run("Invalid entry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := item.NewService(item.NewMockRepository(ctrl))

		_, err := svc.Confirm(context.Background(), []item.CreateParams{{Name: "Gym", Amount: dec("-1")}})
		assert.ErrorIs(t, err, recurring.ErrInvalidAmount)
	})

	t.Run("Begin fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := item.NewMockRepository(ctrl)
		repo.EXPECT().BeginConfirm(gomock.Any()).Return(nil, errors.New("locked"))

		svc := item.NewService(repo)

		_, err := svc.Confirm(context.Background(), []item.CreateParams{{Name: "Gym", Amount: dec("1")}})
		assert.ErrorContains(t, err, "locked")
	})

	t.Run("Everything skipped does not commit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := item.NewMockRepository(ctrl)
		itx := item.NewMockConfirmTx(ctrl)

		repo.EXPECT().BeginConfirm(gomock.Any()).Return(itx, nil)
		itx.EXPECT().ListItems(gomock.Any()).Return([]*item.Item{{Name: "Gym", RawAmount: dec("30")}}, nil)
		itx.EXPECT().Rollback().Return(nil)

		svc := item.NewService(repo)

		res, err := svc.Confirm(context.Background(), []item.CreateParams{{Name: "gym", Amount: dec("31")}})
		require.NoError(t, err)
		assert.Empty(t, res.Created)
		assert.Len(t, res.Skipped, 1)
	})
}

func TestService_Refresh(t *testing.T) {
	spotify := &item.Item{ID: uuid.New(), Name: "Spotify", RawAmount: dec("10.99"), Frequency: recurring.FrequencyMonthly}
	current := &item.Item{
		ID:              uuid.New(),
		Name:            "Netflix",
		RawAmount:       dec("15.99"),
		Frequency:       recurring.FrequencyMonthly,
		NextBillingDate: day(2025, time.February, 3),
		LastUsedDate:    day(2025, time.January, 3),
	}
	untouched := &item.Item{ID: uuid.New(), Name: "Gym", RawAmount: dec("30"), Frequency: recurring.FrequencyMonthly}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().ListItems(gomock.Any(), item.ListFilter{}).Return([]*item.Item{spotify, current, untouched}, nil)
	repo.EXPECT().
		UpdateBillingDates(gomock.Any(), spotify.ID, *day(2025, time.February, 4), *day(2025, time.January, 4)).
		Return(nil)

	svc := item.NewService(repo, item.WithClock(clock))

	n, err := svc.Refresh(context.Background(), []recurring.ParsedResult{
		{Name: "Spotify", LastUsed: "2024-12-04"},
		{Name: "Spotify", LastUsed: "2025-01-04"},
		{Name: "Netflix", LastUsed: "2025-01-03"},
		{Name: "Gym"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_KnownSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().ListItems(gomock.Any(), item.ListFilter{}).Return([]*item.Item{{Name: "PureGym"}}, nil)

	aliases := item.NewMockAliasSource(ctrl)
	aliases.EXPECT().Aliases(gomock.Any()).Return(map[string][]string{"puregym": {"PURE GYM LTD"}}, nil)

	svc := item.NewService(repo, item.WithAliases(aliases))

	known, err := svc.KnownSet(context.Background())
	require.NoError(t, err)

	assert.True(t, known.Contains("PureGym membership"))
	assert.True(t, known.Contains("pure gym ltd"))
	assert.False(t, known.Contains("Netflix"))
}

func TestService_Pause(t *testing.T) {
	id := uuid.New()
	until := day(2025, time.March, 1)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().GetItem(gomock.Any(), id).Return(&item.Item{ID: id, Name: "Gym", RawAmount: dec("30")}, nil)
	repo.EXPECT().
		UpdateItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *item.Item) error {
			assert.Equal(t, until, it.PausedUntil)
			return nil
		})

	svc := item.NewService(repo)
	require.NoError(t, svc.Pause(context.Background(), id, until))
}

func TestService_Pause_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().GetItem(gomock.Any(), gomock.Any()).Return(nil, item.ErrNotFound)

	svc := item.NewService(repo)
	assert.ErrorIs(t, svc.Pause(context.Background(), uuid.New(), nil), item.ErrNotFound)
}

func TestService_Calendar(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().ListItems(gomock.Any(), item.ListFilter{}).Return([]*item.Item{
		{ID: uuid.New(), Name: "Gym", RawAmount: dec("30"), Frequency: recurring.FrequencyMonthly, BillingDay: new(15)},
		{ID: uuid.New(), Name: "Insurance", RawAmount: dec("240"), Frequency: recurring.FrequencyAnnual, NextBillingDate: day(2025, time.March, 2)},
	}, nil)
	repo.EXPECT().ListPlanned(gomock.Any()).Return([]*item.Planned{
		{ID: uuid.New(), Name: "Car service", Amount: dec("180"), Date: day(2025, time.February, 20)},
	}, nil)

	svc := item.NewService(repo, item.WithClock(clock))

	views, err := svc.Calendar(context.Background(), item.CalendarParams{
		From:        billing.Month{Year: 2024, Month: time.December},
		Months:      4,
		ForwardOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, views, 4)

	assert.True(t, views[0].Excluded)
	assert.True(t, dec("30").Equal(views[1].Total))
	assert.True(t, dec("210").Equal(views[2].Total))
	assert.True(t, dec("270").Equal(views[3].Total))
}

func TestItem_MonthlyCost(t *testing.T) {
	it := item.Item{RawAmount: dec("120"), Frequency: recurring.FrequencyAnnual}
	assert.True(t, dec("10.00").Equal(it.MonthlyCost()))

	monthly, annual := item.Totals([]*item.Item{&it, {RawAmount: dec("10"), Frequency: recurring.FrequencyWeekly}})
	assert.True(t, dec("53.30").Equal(monthly))
	assert.True(t, dec("639.60").Equal(annual))
}

func TestParamsFromResult(t *testing.T) {
	conf := 90

	p := item.ParamsFromResult(recurring.ParsedResult{
		Name:        "Netflix",
		Category:    "entertainment",
		Cost:        dec("15.99"),
		Frequency:   recurring.FrequencyMonthly,
		NextBilling: "2025-02-03",
		LastUsed:    "not a date",
		Confidence:  &conf,
	})

	assert.Equal(t, day(2025, time.February, 3), p.NextBillingDate)
	assert.Nil(t, p.LastUsedDate)
	assert.Equal(t, &conf, p.Confidence)
}
