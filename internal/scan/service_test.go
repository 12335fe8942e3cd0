package scan_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/recur/internal/document"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
	"github.com/MrJamesThe3rd/recur/internal/scan"
)

const statementText = "3rd Jan Virgin Active Membership DD 92.00\n4th Jan Spotify Premium monthly 10.99\n"

func newEngine(t *testing.T) *recurring.Engine {
	t.Helper()

	e, err := recurring.NewEngine(recurring.DefaultRules(), recurring.Options{
		Now: func() time.Time { return time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return e
}

func TestService_Scan(t *testing.T) {
	ctrl := gomock.NewController(t)

	docs := scan.NewMockExtractor(ctrl)
	items := scan.NewMockItems(ctrl)
	aliases := scan.NewMockAliases(ctrl)

	docs.EXPECT().Extract(gomock.Any(), document.FormatPDF, gomock.Any()).Return(statementText, nil)
	items.EXPECT().KnownSet(gomock.Any()).Return(recurring.NewKnownSet("Spotify"), nil)
	aliases.EXPECT().Apply(gomock.Any(), gomock.Len(1)).DoAndReturn(
		func(_ context.Context, entries []recurring.ReviewEntry) (int, error) {
			entries[0].Name = "Virgin Active"
			return 1, nil
		},
	)
	items.EXPECT().Refresh(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, detections []recurring.ParsedResult) (int, error) {
			require.Len(t, detections, 1)
			assert.Equal(t, "Spotify", detections[0].Name)
			assert.Equal(t, "2025-01-04", detections[0].LastUsed)

			return 1, nil
		},
	)

	svc := scan.NewService(docs, newEngine(t), items, scan.WithAliases(aliases))

	rep, err := svc.Scan(context.Background(), document.FormatPDF, strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, document.FormatPDF, rep.Format)
	assert.Equal(t, 2, rep.Rows)
	assert.Equal(t, 1, rep.Refreshed)
	assert.Equal(t, 1, rep.Renamed)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, "Virgin Active", rep.Entries[0].Name)
	assert.Empty(t, rep.Results)
}

func TestService_ScanText_WithoutAliases(t *testing.T) {
	ctrl := gomock.NewController(t)

	items := scan.NewMockItems(ctrl)
	items.EXPECT().KnownSet(gomock.Any()).Return(recurring.NewKnownSet(), nil)
	items.EXPECT().Refresh(gomock.Any(), gomock.Len(0)).Return(0, nil)

	svc := scan.NewService(scan.NewMockExtractor(ctrl), newEngine(t), items)

	rep, err := svc.ScanText(context.Background(), statementText)
	require.NoError(t, err)

	assert.Equal(t, document.FormatText, rep.Format)
	assert.Len(t, rep.Entries, 2)
	assert.Equal(t, 2, rep.Stats.DetectedCount)
}

func TestService_ScanText_AliasesCollapseEntries(t *testing.T) {
	ctrl := gomock.NewController(t)

	items := scan.NewMockItems(ctrl)
	aliases := scan.NewMockAliases(ctrl)

	items.EXPECT().KnownSet(gomock.Any()).Return(recurring.NewKnownSet(), nil)
	aliases.EXPECT().Apply(gomock.Any(), gomock.Len(2)).DoAndReturn(
		func(_ context.Context, entries []recurring.ReviewEntry) (int, error) {
			for i := range entries {
				entries[i].Name = "Virgin Active"
			}

			return 2, nil
		},
	)
	items.EXPECT().Refresh(gomock.Any(), gomock.Len(0)).Return(0, nil)

	svc := scan.NewService(scan.NewMockExtractor(ctrl), newEngine(t), items, scan.WithAliases(aliases))

	rep, err := svc.ScanText(context.Background(), "3rd Jan Virgin Active Membership DD 92.00\n4th Jan VA Club membership 92.00\n")
	require.NoError(t, err)

	require.Len(t, rep.Entries, 1)
	assert.Equal(t, "Virgin Active", rep.Entries[0].Name)
	assert.Equal(t, 1, rep.Dropped.Duplicate)
	assert.Equal(t, 1, rep.Stats.DetectedCount)
	assert.Equal(t, 2, rep.Renamed)
}

func TestService_Scan_Errors(t *testing.T) {
	type testCase struct {
		name  string
		setup func(docs *scan.MockExtractor, items *scan.MockItems)
		want  error
	}

	extraction := errors.New("extraction")
	db := errors.New("db down")

	tests := []testCase{
		{
			name: "Extraction fails",
			setup: func(docs *scan.MockExtractor, items *scan.MockItems) {
				docs.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return("", extraction)
			},
			want: extraction,
		},
		{
			name: "Known set fails",
			setup: func(docs *scan.MockExtractor, items *scan.MockItems) {
				docs.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return(statementText, nil)
				items.EXPECT().KnownSet(gomock.Any()).Return(nil, db)
			},
			want: db,
		},
		{
			name: "Refresh fails",
			setup: func(docs *scan.MockExtractor, items *scan.MockItems) {
				docs.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return(statementText, nil)
				items.EXPECT().KnownSet(gomock.Any()).Return(nil, nil)
				items.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(0, db)
			},
			want: db,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			docs := scan.NewMockExtractor(ctrl)
			items := scan.NewMockItems(ctrl)
			tt.setup(docs, items)

			_, err := scan.NewService(docs, newEngine(t), items).Scan(context.Background(), document.FormatCSV, strings.NewReader(""))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
