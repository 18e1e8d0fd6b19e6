package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/svank/appa-backend/internal/adsclient"
	"github.com/svank/appa-backend/internal/cache"
	"github.com/svank/appa-backend/internal/logbuddy"
	"github.com/svank/appa-backend/internal/pathfinder"
	"github.com/svank/appa-backend/internal/progress"
	"github.com/svank/appa-backend/internal/ranker"
	"github.com/svank/appa-backend/internal/repository"
)

// requestParams is the parsed form of find_route/get_graph_data's shared
// query parameters.
type requestParams struct {
	src        string
	dest       string
	exclusions []string
}

func parseRequestParams(c *gin.Context) requestParams {
	p := requestParams{
		src:  c.Query("src"),
		dest: c.Query("dest"),
	}
	if raw := c.Query("exclusions"); raw != "" {
		p.exclusions = sortedExclusions(strings.Split(raw, "\n"))
	}
	return p
}

// progressKey reads the client-supplied progress key from the request body.
// A GET request has no body and gets no live progress tracking.
func progressKey(c *gin.Context) string {
	body, err := c.GetRawData()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}

// findRoute is the handler for GET/POST /find_route.
func (srv *server) findRoute(c *gin.Context) {
	params := parseRequestParams(c)
	if params.src == "" {
		writeError(c, params.src, params.dest, "src_empty", "source author has no usable documents")
		return
	}
	if params.dest == "" {
		writeError(c, params.src, params.dest, "dest_empty", "destination author has no usable documents")
		return
	}

	ctx := c.Request.Context()
	cacheKey := cache.GenerateResultCacheKey(params.src, params.dest, params.exclusions)

	if c.Query("no_cache") == "" {
		if data, err := srv.facade.LoadResult(ctx, cacheKey, srv.cfg.ResultCacheTTL, nil); err == nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
	}

	buddy := logbuddy.New(srv.progressPusher())
	if key := progressKey(c); key != "" {
		buddy.SetProgressKey(key)
	}

	ads := adsclient.New(srv.cfg.ADSBaseURL, srv.cfg.ADSToken, srv.space, buddy)
	repo := repository.New(srv.facade, ads, srv.space, buddy, srv.cfg.WorkerPoolSize)

	buddy.OnStartPathFinding()
	pf, err := pathfinder.New(srv.space, buddy, repo, srv.cfg.MaxBFSIterations, params.src, params.dest, params.exclusions)
	if err != nil {
		srv.writePathfinderErr(c, params, err)
		return
	}
	if err := pf.Run(ctx); err != nil {
		srv.writePathfinderErr(c, params, err)
		return
	}
	buddy.OnStopPathFinding()

	rk := ranker.New(repo, srv.space, srv.cfg.Scoring, pf.ExcludedNames())
	chains, err := rk.Rank(ctx, pf.Src(), pf.Dest())
	if err != nil {
		if errors.Is(err, ranker.ErrAllPathsInvalid) {
			writeError(c, params.src, params.dest, "all_paths_invalid",
				"every candidate path was ruled out by conflicting ORCID IDs or names")
			return
		}
		writeError(c, params.src, params.dest, "internal_error", err.Error())
		return
	}

	resultStart := time.Now()
	result, err := buildResult(ctx, repo, pf, chains, buddy)
	if err != nil {
		writeError(c, params.src, params.dest, "internal_error", err.Error())
		return
	}
	buddy.OnResultPrepared(time.Since(resultStart))
	buddy.LogStats()

	data, err := json.Marshal(result)
	if err != nil {
		writeError(c, params.src, params.dest, "internal_error", err.Error())
		return
	}
	_ = srv.facade.StoreResult(ctx, cacheKey, data)

	c.Data(http.StatusOK, "application/json", data)
}

// writePathfinderErr translates a pathfinder.Error into the wire error
// envelope and an ADS rate-limit error into a "rate_limited" envelope
// carrying the reset time. Any other error (context cancellation, ADS
// failure) is reported as "internal_error" with the error's own message.
func (srv *server) writePathfinderErr(c *gin.Context, params requestParams, err error) {
	var pfErr *pathfinder.Error
	if errors.As(err, &pfErr) {
		writeError(c, params.src, params.dest, pfErr.Key, pfErr.Message)
		return
	}
	var rlErr *adsclient.ADSRateLimitError
	if errors.As(err, &rlErr) {
		c.JSON(http.StatusOK, errorJSON{
			ErrorKey: "rate_limited",
			ErrorMsg: rlErr.Error(),
			Src:      params.src,
			Dest:     params.dest,
			Reset:    rlErr.ResetTime,
		})
		return
	}
	writeError(c, params.src, params.dest, "internal_error", err.Error())
}

// progressPusher adapts the facade's progress store into a logbuddy.PushFunc,
// serializing each snapshot as JSON the way StoreResult stores rendered JSON.
func (srv *server) progressPusher() logbuddy.PushFunc {
	return func(key string, snap progress.Record) {
		data, err := json.Marshal(snap)
		if err != nil {
			return
		}
		_ = srv.facade.StoreProgress(context.Background(), key, data)
	}
}

// getProgress is the handler for GET /get_progress.
func (srv *server) getProgress(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusOK, gin.H{"error": true})
		return
	}
	data, err := srv.facade.LoadProgress(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": true})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// getGraphData is the handler for GET /get_graph_data: it re-derives the
// result cache key from src/dest/exclusions and returns just the chains
// field of a previously cached result.
func (srv *server) getGraphData(c *gin.Context) {
	params := parseRequestParams(c)
	cacheKey := cache.GenerateResultCacheKey(params.src, params.dest, params.exclusions)

	data, err := srv.facade.LoadResult(c.Request.Context(), cacheKey, srv.cfg.ResultCacheTTL, nil)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "data not found"})
		return
	}

	var result resultJSON
	if err := json.Unmarshal(data, &result); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "data not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"graphData": result.Chains})
}
