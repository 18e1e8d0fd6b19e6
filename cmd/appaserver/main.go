// appaserver is the thin HTTP shell in front of the path-finding core: it
// parses requests, generates cache keys, and assembles the JSON envelope.
// It contains no chain-finding or scoring logic itself.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/svank/appa-backend/internal/cache"
	"github.com/svank/appa-backend/internal/config"
	"github.com/svank/appa-backend/internal/name"
)

// server holds the process-wide, shareable pieces: the name space, the
// cache facade, and the config. Each request builds its own ADS client and
// Repository, since prefetch coalescing is scoped to one path-finding run,
// not shared process-wide.
type server struct {
	space  *name.Space
	facade *cache.Facade
	cfg    *config.Config
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %v\n\n", err)
		os.Exit(1)
	}

	space := name.NewSpace()
	if len(cfg.SynonymFiles) > 0 {
		if err := space.LoadSynonymFiles(cfg.SynonymFiles); err != nil {
			fmt.Fprintf(os.Stderr, "\nERROR: loading synonym files: %v\n\n", err)
			os.Exit(1)
		}
	}

	backing, err := cache.NewFSBacking(cfg.CacheRootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: local cache is not available: %v\n\n", err)
		os.Exit(1)
	}
	if cfg.CacheByteBudget > 0 {
		batchBudget := cfg.CacheByteBudget / 32
		if batchBudget < 1<<20 {
			batchBudget = 1 << 20
		}
		backing.SetBatchByteBudget(int(batchBudget))
	}
	facade := cache.NewFacade(backing, cfg.CacheMaxAge, cfg.CacheMaxAgeAuto, cfg.CacheByteBudget)

	clearStart := time.Now()
	if err := facade.Refresh(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: cache refresh failed: %v\n", err)
	} else {
		fmt.Printf("Cleared stale cache data in %s\n", time.Since(clearStart))
	}

	srv := &server{space: space, facade: facade, cfg: cfg}

	r := gin.Default()
	r.Use(corsHeader())

	r.GET("/find_route", srv.findRoute)
	r.POST("/find_route", srv.findRoute)
	r.GET("/get_progress", srv.getProgress)
	r.GET("/get_graph_data", srv.getGraphData)

	port := os.Getenv("APPA_PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

// corsHeader sets Access-Control-Allow-Origin: * on every response, since
// the frontend is served from a different origin than this API.
func corsHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

func writeError(c *gin.Context, src, dest, key, msg string) {
	c.JSON(http.StatusOK, errorJSON{ErrorKey: key, ErrorMsg: msg, Src: src, Dest: dest})
}
