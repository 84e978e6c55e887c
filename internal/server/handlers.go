package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/bess"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/cable"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/energy"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/finance"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/geo"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/layout"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
)

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

func (s *Server) handleDesign(c *gin.Context) {
	var ds spec.DesignSpec
	if err := c.ShouldBindJSON(&ds); err != nil {
		badRequest(c, err)
		return
	}
	res, report, err := s.engine.Run(c.Request.Context(), &ds)
	if err != nil {
		writeError(c, err, gin.H{"validation": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "validation": report})
}

func (s *Server) handleCable(c *gin.Context) {
	var in cable.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := cable.Size(s.catalog, in)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

type bessRequest struct {
	Coupling bess.Coupling `json:"coupling"`
	bess.Inputs
}

func (s *Server) handleBESS(c *gin.Context) {
	var req bessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Coupling == "" {
		req.Coupling = bess.CouplingDC
	}
	sizing, err := bess.Size(req.Coupling, req.Inputs)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sizing)
}

// financeRequest takes either a full yearly production series or a
// first-year figure to degrade over the lifetime.
type financeRequest struct {
	Financial           spec.FinancialParams `json:"financial"`
	AnnualProductionKWh float64              `json:"annual_production_kwh"`
	YearlyProductionKWh []float64            `json:"yearly_production_kwh"`
}

func (s *Server) handleFinance(c *gin.Context) {
	req := financeRequest{Financial: spec.NewFinancialParams()}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ds := spec.DesignSpec{Financial: req.Financial}
	spec.ApplyDefaults(&ds)
	fp := ds.Financial

	yearly := req.YearlyProductionKWh
	if len(yearly) == 0 {
		var err error
		yearly, err = energy.Project(req.AnnualProductionKWh, fp.DegradationPct, fp.LifetimeYears)
		if err != nil {
			writeError(c, err, nil)
			return
		}
	}
	a, err := finance.Analyze(fp, yearly)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, a)
}

type geometryRequest struct {
	Vertices []geo.LatLng `json:"vertices"`
	Site     *struct {
		UsableFraction float64 `json:"usable_fraction"`
		GCR            float64 `json:"gcr"`
		ModuleAreaM2   float64 `json:"module_area_m2"`
		ModuleWp       float64 `json:"module_wp"`
	} `json:"site,omitempty"`
}

func (s *Server) handleGeometry(c *gin.Context) {
	var req geometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	poly, err := geo.Measure(req.Vertices)
	if err != nil {
		writeError(c, err, nil)
		return
	}
	body := gin.H{"polygon": poly}
	if req.Site != nil {
		site := &spec.SiteDef{
			UsableFraction: req.Site.UsableFraction,
			GCR:            req.Site.GCR,
			ModuleAreaM2:   req.Site.ModuleAreaM2,
			ModuleWp:       req.Site.ModuleWp,
		}
		ds := spec.DesignSpec{Site: site}
		spec.ApplyDefaults(&ds)
		inst, err := layout.Potential(poly, layout.ParamsFromSite(ds.Site))
		if err != nil {
			writeError(c, err, nil)
			return
		}
		body["installation"] = inst
	}
	c.JSON(http.StatusOK, body)
}
