// SPDX-License-Identifier: Apache-2.0
// Copyright 2025 The SelfOS Authors

package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/selfos/sync-server/internal/logger"
	"github.com/selfos/sync-server/internal/utils"
	"github.com/selfos/sync-server/models"
)

func (h *Handler) syncBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncBatch").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	var batchRequest models.BatchSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		log.Err(err).Str("func", "*Handler.syncBatch").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, batchRequest); err != nil {
		log.Err(err).Str("func", "*Handler.syncBatch").Msg("batch request failed validation")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	response, err := h.services.SyncService.ProcessBatch(ctx, userID, batchRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncBatch").Msg("error processing sync batch")
		http.Error(w, "error processing sync batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) syncDelta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncDelta").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	// The checkpoint is milliseconds since epoch, as returned in
	// current_timestamp of the previous delta response.
	sinceParam := chi.URLParam(r, "since")
	sinceMillis, err := strconv.ParseInt(sinceParam, 10, 64)
	if err != nil || sinceMillis < 0 {
		log.Error().Str("func", "*Handler.syncDelta").Str("since", sinceParam).Msg("invalid since checkpoint")
		http.Error(w, "since must be a non-negative millisecond timestamp", http.StatusBadRequest)
		return
	}
	since := time.UnixMilli(sinceMillis).UTC()

	var objectTypes []string
	if typesParam := r.URL.Query().Get("object_types"); typesParam != "" {
		for _, name := range strings.Split(typesParam, ",") {
			if name = strings.TrimSpace(name); name != "" {
				objectTypes = append(objectTypes, name)
			}
		}
	}

	var limit int
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			log.Error().Str("func", "*Handler.syncDelta").Str("limit", limitParam).Msg("invalid limit")
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	response, err := h.services.SyncService.GetDelta(ctx, userID, since, objectTypes, limit)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncDelta").Msg("error building delta feed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncStatus").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	response, err := h.services.SyncService.GetStatus(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncStatus").Msg("error getting sync status")
		http.Error(w, "error getting sync status", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.resolveConflict").Msg("no user ID was given")
		http.Error(w, "no user ID was given", http.StatusUnauthorized)
		return
	}

	objectID := chi.URLParam(r, "id")

	var resolveRequest models.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&resolveRequest); err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, resolveRequest); err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Msg("resolution request failed validation")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	response, err := h.services.SyncService.ResolveConflict(ctx, userID, objectID, resolveRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Str("object_id", objectID).Msg("error resolving conflict")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
