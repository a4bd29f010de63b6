package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do"

	"droppu/internal/services"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
	// Registry defaults to the prometheus default registry.
	Registry *prometheus.Registry
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.Registry != nil {
		registerer, gatherer = cfg.Registry, cfg.Registry
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())
	r.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "droppu",
		Registerer: registerer,
	}))

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🤖")
	})
	r.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.
		routesAPIv1.GET("", Hello)

		u := groupUser{cfg.Container}
		routesAPIv1.POST("/users/init", u.Init)
		routesAPIv1.GET("/users/me", u.Me)
		routesAPIv1.GET("/users/me/earnings", u.Earnings)
		routesAPIv1.GET("/users/:id", u.Show)
		routesAPIv1.PUT("/users/:id", u.Update)

		routesAPIv1Game := routesAPIv1.Group("/games")
		{
			g := groupGame{cfg.Container}
			routesAPIv1Game.POST("/start", g.Start)
			routesAPIv1Game.POST("/end", g.End)
			routesAPIv1Game.GET("/sessions/:id", g.Session)
		}

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/:period", l.Get)

		routesAPIv1Task := routesAPIv1.Group("/tasks")
		{
			t := groupTask{cfg.Container}
			routesAPIv1Task.GET("", t.List)
			routesAPIv1Task.GET("/incomplete", t.Incomplete)
			routesAPIv1Task.POST("/:id/complete", t.Complete)
		}

		routesAPIv1Referral := routesAPIv1.Group("/referrals")
		{
			rf := groupReferral{cfg.Container}
			routesAPIv1Referral.GET("/pending-rewards", rf.PendingRewards)
			routesAPIv1Referral.POST("/claim-rewards", rf.ClaimRewards)
			routesAPIv1Referral.GET("/list", rf.List)
		}

		routesAPIv1Inventory := routesAPIv1.Group("/inventory")
		{
			i := groupInventory{cfg.Container}
			routesAPIv1Inventory.GET("/items", i.Items)
			routesAPIv1Inventory.GET("/my", i.Mine)
			routesAPIv1Inventory.POST("/add", i.Add)
			routesAPIv1Inventory.POST("/remove", i.Remove)
		}

		routesAPIv1Payment := routesAPIv1.Group("/payments")
		{
			p := groupPayment{cfg.Container}
			routesAPIv1Payment.POST("/create-invoice", p.CreateInvoice)
			routesAPIv1Payment.POST("/:id/paid", p.Paid)
			// no session: the mini app reports these after the invoice popup closes
			routesAPIv1Payment.POST("/:id/cancelled", p.Cancelled)
			routesAPIv1Payment.POST("/:id/failed", p.Failed)
			routesAPIv1Payment.GET("/:id/status", p.Status)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello world", nil)
}
