package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sitewrap/pkg/db"
	"sitewrap/services/generator"
)

func (a *API) handleCreateBuild(w http.ResponseWriter, r *http.Request) {
	var req generator.Config
	if err := decodeJSON(r, &req); err != nil {
		buildsTotal.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, err)
		return
	}

	artifact, err := a.pipeline.Run(r.Context(), req)
	if err != nil {
		kind := generator.KindOf(err)
		buildsTotal.WithLabelValues(outcomeLabel(kind)).Inc()
		a.logf("ERROR build for %q failed: %v", req.AppName, err)
		respondError(w, statusForKind(kind), err)
		return
	}

	buildsTotal.WithLabelValues("success").Inc()
	a.recordBuild(r.Context(), req, artifact)
	a.publishBuildFinished(r.Context(), artifact)

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"buildId":     artifact.BuildID,
		"appName":     artifact.AppName,
		"packageName": artifact.PackageName,
		"downloadUrl": artifact.DownloadURL,
	})
}

func (a *API) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	if a.store.DB == nil {
		respondError(w, http.StatusFailedDependency, errors.New("database not configured"))
		return
	}

	var rows []buildRecord
	query := `SELECT build_id, app_name, package_name, website_url, download_url, created_at
	          FROM builds ORDER BY created_at DESC LIMIT 50`
	if err := db.Select(r.Context(), a.store.DB, &rows, query); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if rows == nil {
		rows = []buildRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"builds": rows})
}

// recordBuild persists a history row for the finished build. Persistence is
// best effort: the artifact is already durable in object storage, so a
// bookkeeping failure must not fail the request.
func (a *API) recordBuild(ctx context.Context, cfg generator.Config, artifact generator.Artifact) {
	if a.store.ORM == nil {
		return
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	model := buildModel{
		ID:          uuid.New(),
		BuildID:     artifact.BuildID,
		AppName:     artifact.AppName,
		PackageName: artifact.PackageName,
		WebsiteURL:  cfg.WebsiteURL,
		DownloadURL: artifact.DownloadURL,
		Features: datatypes.JSONMap{
			"notifications": cfg.EnableNotifications,
			"musicControls": cfg.EnableMusicControls,
		},
	}

	if err := a.store.ORM.WithContext(ctx).Create(&model).Error; err != nil {
		a.logf("WARN record build %s: %v", artifact.BuildID, err)
	}
}

func statusForKind(kind generator.Kind) int {
	switch kind {
	case generator.KindMissingFields, generator.KindInvalidIcon:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func outcomeLabel(kind generator.Kind) string {
	if kind == "" {
		return "error"
	}
	return string(kind)
}
