// internal/handlers/export_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sehatindo/apotek-be/internal/core/domain"
	"github.com/sehatindo/apotek-be/internal/handlers"
	"github.com/sehatindo/apotek-be/test/helpers"
	"github.com/sehatindo/apotek-be/test/mocks"
)

func TestExportHandler_Start_RejectsUnknownFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockJobs := mocks.NewMockImportJobRepository(ctrl)
	mockStorage := mocks.NewMockStorageClient(ctrl)

	// Format validation runs before any job or queue access, so a nil
	// asynq client is never touched on this path.
	handler := handlers.NewExportHandler(mockJobs, mockStorage, nil, helpers.TestLogger())

	req := httptest.NewRequest("POST", "/api/v1/export/csv", nil)
	req.SetPathValue("format", "csv")
	w := httptest.NewRecorder()

	handler.Start(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestExportHandler_Download(t *testing.T) {
	jobID := uuid.New()

	tests := []struct {
		name           string
		jobIDParam     string
		setupMocks     func(*mocks.MockImportJobRepository, *mocks.MockStorageClient)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:       "completed_job_gets_presigned_url",
			jobIDParam: jobID.String(),
			setupMocks: func(jobs *mocks.MockImportJobRepository, st *mocks.MockStorageClient) {
				jobs.EXPECT().
					FindByID(gomock.Any(), jobID).
					Return(&domain.ImportJob{
						ID:        jobID,
						JobType:   domain.JobTypeExport,
						Status:    domain.JobStatusCompleted,
						ObjectKey: "exports/inventory.xlsx",
					}, nil)
				st.EXPECT().
					GetPresignedURL(gomock.Any(), "exports/inventory.xlsx", gomock.Any()).
					Return("https://s3.example.com/signed", nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "https://s3.example.com/signed", response["download_url"])
			},
		},
		{
			name:       "pending_job_reports_status_without_url",
			jobIDParam: jobID.String(),
			setupMocks: func(jobs *mocks.MockImportJobRepository, st *mocks.MockStorageClient) {
				jobs.EXPECT().
					FindByID(gomock.Any(), jobID).
					Return(&domain.ImportJob{
						ID:      jobID,
						JobType: domain.JobTypeExport,
						Status:  domain.JobStatusProcessing,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "processing", response["status"])
				assert.Empty(t, response["download_url"])
			},
		},
		{
			name:       "unknown_job",
			jobIDParam: jobID.String(),
			setupMocks: func(jobs *mocks.MockImportJobRepository, st *mocks.MockStorageClient) {
				jobs.EXPECT().
					FindByID(gomock.Any(), jobID).
					Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid_job_id",
			jobIDParam:     "not-a-uuid",
			setupMocks:     func(jobs *mocks.MockImportJobRepository, st *mocks.MockStorageClient) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockJobs := mocks.NewMockImportJobRepository(ctrl)
			mockStorage := mocks.NewMockStorageClient(ctrl)
			handler := handlers.NewExportHandler(mockJobs, mockStorage, nil, helpers.TestLogger())

			tt.setupMocks(mockJobs, mockStorage)

			req := httptest.NewRequest("GET", "/api/v1/export/download/"+tt.jobIDParam, nil)
			req.SetPathValue("id", tt.jobIDParam)
			w := httptest.NewRecorder()

			handler.Download(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestImportHandler_Status(t *testing.T) {
	jobID := uuid.New()

	t.Run("returns_job_progress", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockJobs := mocks.NewMockImportJobRepository(ctrl)
		mockStorage := mocks.NewMockStorageClient(ctrl)
		handler := handlers.NewImportHandler(mockJobs, mockStorage, nil, 50, helpers.TestLogger())

		mockJobs.EXPECT().
			FindByID(gomock.Any(), jobID).
			Return(&domain.ImportJob{
				ID:         jobID,
				JobType:    domain.JobTypeExcel,
				Status:     domain.JobStatusCompleted,
				TotalRows:  120,
				MergedRows: 20,
			}, nil)

		req := httptest.NewRequest("GET", "/api/v1/import/status/"+jobID.String(), nil)
		req.SetPathValue("id", jobID.String())
		w := httptest.NewRecorder()

		handler.Status(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var job domain.ImportJob
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
		assert.Equal(t, 120, job.TotalRows)
		assert.Equal(t, domain.JobStatusCompleted, job.Status)
	})

	t.Run("unknown_job", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockJobs := mocks.NewMockImportJobRepository(ctrl)
		mockStorage := mocks.NewMockStorageClient(ctrl)
		handler := handlers.NewImportHandler(mockJobs, mockStorage, nil, 50, helpers.TestLogger())

		mockJobs.EXPECT().
			FindByID(gomock.Any(), jobID).
			Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/v1/import/status/"+jobID.String(), nil)
		req.SetPathValue("id", jobID.String())
		w := httptest.NewRecorder()

		handler.Status(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})
}

func TestImportHandler_ImportExcel_Validation(t *testing.T) {
	newUpload := func(t *testing.T, fieldName, fileName string) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(fieldName, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("not a real spreadsheet"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	t.Run("rejects_unsupported_extension", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockJobs := mocks.NewMockImportJobRepository(ctrl)
		mockStorage := mocks.NewMockStorageClient(ctrl)
		handler := handlers.NewImportHandler(mockJobs, mockStorage, nil, 50, helpers.TestLogger())

		body, contentType := newUpload(t, "file", "stock.csv")
		req := httptest.NewRequest("POST", "/api/v1/import/excel", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.ImportExcel(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})

	t.Run("rejects_missing_file_field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockJobs := mocks.NewMockImportJobRepository(ctrl)
		mockStorage := mocks.NewMockStorageClient(ctrl)
		handler := handlers.NewImportHandler(mockJobs, mockStorage, nil, 50, helpers.TestLogger())

		body, contentType := newUpload(t, "attachment", "stock.xlsx")
		req := httptest.NewRequest("POST", "/api/v1/import/excel", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		handler.ImportExcel(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

func TestImportHandler_ImportInvoicePDF_RequiresSupplier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockJobs := mocks.NewMockImportJobRepository(ctrl)
	mockStorage := mocks.NewMockStorageClient(ctrl)
	handler := handlers.NewImportHandler(mockJobs, mockStorage, nil, 50, helpers.TestLogger())

	req := httptest.NewRequest("POST", "/api/v1/import/invoice-pdf", nil)
	w := httptest.NewRecorder()

	handler.ImportInvoicePDF(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}
