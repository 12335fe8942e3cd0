package alias_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recur/internal/alias"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern string
		name    string
	}

	type testCase struct {
		name    string
		args    args
		setup   func(repo *alias.MockRepository)
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Trims and stores",
			args: args{pattern: "  PURE GYM ", name: " PureGym"},
			setup: func(repo *alias.MockRepository) {
				repo.EXPECT().CreateAlias(gomock.Any(), "PURE GYM", "PureGym").Return(nil)
			},
		},
		{
			name:    "Empty pattern",
			args:    args{pattern: " ", name: "PureGym"},
			setup:   func(repo *alias.MockRepository) {},
			wantErr: true,
		},
		{
			name:    "Empty name",
			args:    args{pattern: "PURE GYM", name: ""},
			setup:   func(repo *alias.MockRepository) {},
			wantErr: true,
		},
		{
			name: "Repository error",
			args: args{pattern: "PURE GYM", name: "PureGym"},
			setup: func(repo *alias.MockRepository) {
				repo.EXPECT().CreateAlias(gomock.Any(), "PURE GYM", "PureGym").Return(errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := alias.NewMockRepository(ctrl)
			tt.setup(repo)

			err := alias.NewService(repo).Learn(context.Background(), tt.args.pattern, tt.args.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Aliases(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := alias.NewMockRepository(ctrl)

	repo.EXPECT().ListAliases(gomock.Any()).Return([]*alias.Alias{
		{Pattern: "PURE GYM", Name: "PureGym"},
		{Pattern: "PUREGYM LTD", Name: "puregym"},
		{Pattern: "NFLX", Name: "Netflix"},
	}, nil)

	got, err := alias.NewService(repo).Aliases(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		"puregym": {"PURE GYM", "PUREGYM LTD"},
		"netflix": {"NFLX"},
	}, got)
}

func TestService_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := alias.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "PURE GYM LTD").Return("PureGym", nil)
	repo.EXPECT().FindMatch(gomock.Any(), "Netflix").Return("", nil)
	repo.EXPECT().FindMatch(gomock.Any(), "Spotify").Return("Spotify", nil)

	entries := []recurring.ReviewEntry{
		recurring.NewReviewEntry(recurring.ParsedResult{Name: "PURE GYM LTD", Cost: decimal.NewFromInt(25)}, recurring.SourceCandidate),
		recurring.NewReviewEntry(recurring.ParsedResult{Name: "Netflix", Cost: decimal.NewFromInt(10)}, recurring.SourceParsed),
		recurring.NewReviewEntry(recurring.ParsedResult{Name: "Spotify", Cost: decimal.NewFromInt(11)}, recurring.SourceParsed),
	}

	n, err := alias.NewService(repo).Apply(context.Background(), entries)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, "PureGym", entries[0].Name)
	assert.Equal(t, "Netflix", entries[1].Name)
}

func TestService_Apply_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := alias.NewMockRepository(ctrl)

	repo.EXPECT().FindMatch(gomock.Any(), "Netflix").Return("", errors.New("db down"))

	entries := []recurring.ReviewEntry{
		recurring.NewReviewEntry(recurring.ParsedResult{Name: "Netflix", Cost: decimal.NewFromInt(10)}, recurring.SourceParsed),
	}

	_, err := alias.NewService(repo).Apply(context.Background(), entries)
	assert.Error(t, err)
}
