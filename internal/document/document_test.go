package document_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recur/internal/document"
)

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Extract(context.Context, io.Reader) (string, error) {
	return s.text, s.err
}

func TestParseFormat(t *testing.T) {
	type testCase struct {
		in      string
		want    document.Format
		wantErr bool
	}

	tests := []testCase{
		{in: "pdf", want: document.FormatPDF},
		{in: ".PDF", want: document.FormatPDF},
		{in: "application/pdf", want: document.FormatPDF},
		{in: "qfx", want: document.FormatOFX},
		{in: "text/csv", want: document.FormatCSV},
		{in: "txt", want: document.FormatText},
		{in: "docx", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := document.ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, document.ErrUnknownFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatOf(t *testing.T) {
	got, err := document.FormatOf("/tmp/statements/jan-2025.ofx")
	require.NoError(t, err)
	assert.Equal(t, document.FormatOFX, got)

	_, err = document.FormatOf("statement")
	assert.ErrorIs(t, err, document.ErrUnknownFormat)
}

func TestService_Extract(t *testing.T) {
	svc := document.NewService("", 0,
		document.WithExtractor(document.FormatPDF, stubExtractor{text: "page one\fpage two\r\n"}),
	)

	text, err := svc.Extract(context.Background(), document.FormatPDF, strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "page one\npage two\n", text)

	text, err = svc.Extract(context.Background(), document.FormatText, strings.NewReader("03/01/2025 NETFLIX 10.99\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "03/01/2025 NETFLIX 10.99\n", text)

	text, err = svc.Extract(context.Background(), document.FormatCSV, strings.NewReader("Date,Description,Amount\n03/01/2025,SPOTIFY,-11.99\n"))
	require.NoError(t, err)
	assert.Equal(t, "03/01/2025 SPOTIFY 11.99\n", text)
}

func TestService_Extract_Errors(t *testing.T) {
	cause := errors.New("exit status 1")

	svc := document.NewService("", 0,
		document.WithExtractor(document.FormatPDF, stubExtractor{err: cause}),
	)

	_, err := svc.Extract(context.Background(), document.FormatPDF, strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, document.ErrExtractionFailed)
	assert.ErrorIs(t, err, cause)

	_, err = svc.Extract(context.Background(), document.FormatCSV, strings.NewReader("no,header,here\n"))
	assert.ErrorIs(t, err, document.ErrExtractionFailed)

	_, err = svc.Extract(context.Background(), document.Format("docx"), strings.NewReader(""))
	assert.ErrorIs(t, err, document.ErrUnknownFormat)
}
