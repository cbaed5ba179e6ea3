package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/ContractAPI/internal/adapter"
	"github.com/akolanti/ContractAPI/internal/adapter/utils"
	"github.com/akolanti/ContractAPI/internal/api"
	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/rag/ragErrors"
)

type newJobData struct {
	id           string
	traceId      string
	documentName string
	documentPath string
	query        string
}

// GetHandler godoc
// @Summary      Liveness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /healthz [get]
func GetHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok", JobStore: jobStoreKind()})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse   "The current status of the job"
// @Failure      404  {object}  api.JobResponse   "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceId(r))

	logRH.Debug("Get Status Request", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostAnalyzeHandler handles the upload of a contract together with the query to run against it.
// @Summary      Analyze a contract
// @Description  Receives a contract via multipart/form-data with a query, saves it to a temporary directory and queues an analysis job.
// @Tags         Analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        document       formData  file    true   "The PDF, DOCX or TXT contract"
// @Param        query          formData  string  true   "The question or instruction"
// @Param        document_name  formData  string  false  "Display name, defaults to the uploaded file name"
// @Success      202  {object}  api.InitJobResponse "Job successfully created"
// @Failure      400  {object}  api.JobResponse "Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Storage or write error"
// @Failure      503  {object}  api.JobResponse "Job queue is full"
// @Router       /analyze [post]
func PostAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	originalName := filepath.Base(fileMetadata.Filename)
	docName := strings.TrimSpace(r.FormValue("document_name"))
	if docName == "" {
		docName = originalName
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, docName, errString)
		return
	}

	tempFilePath := filepath.Join(targetDir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), originalName))
	if errString := saveUpload(tempFilePath, fileReader); errString != "" {
		WriteErrorResponse(w, http.StatusInternalServerError, docName, errString)
		return
	}

	newJob := newJobData{
		id:           utils.GetNewUUID(),
		traceId:      traceId(r),
		documentName: docName,
		documentPath: tempFilePath,
		query:        query,
	}
	if err := CreateNewJob(r.Context(), newJob); err != nil {
		_ = os.Remove(tempFilePath)
		WriteErrorResponse(w, http.StatusServiceUnavailable, docName, "Job queue is full, retry later")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// DeleteCollectionHandler godoc
// @Summary      Drop a collection
// @Description  Deletes the persisted semantic index collection of a document.
// @Tags         Index
// @Produce      json
// @Param        id   path      string  true  "Collection ID"
// @Success      204  "Collection dropped"
// @Failure      502  {object}  api.JobResponse "Index unavailable"
// @Router       /collections/{id} [delete]
func DeleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if id == "" {
		WriteErrorResponse(w, http.StatusBadRequest, id, "collection id is required")
		return
	}

	if err := DropCollection(r.Context(), id); err != nil {
		logRH.WithTrace(r.Context()).Error("Drop collection failed", "collection", id, "err", err)
		code := http.StatusInternalServerError
		if errors.Is(err, ragErrors.ErrIndex) {
			code = http.StatusBadGateway
		}
		WriteErrorResponse(w, code, id, "Could not drop collection")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func saveUpload(path string, src io.Reader) string {
	dst, err := os.Create(path)
	if err != nil {
		return "Storage error"
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logRH.Error("Saving upload failed", "path", path, "err", err)
		_ = os.Remove(path)
		return "Write error"
	}
	return ""
}
