package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/omnibridge-engine/relayer"
	"github.com/strangelove-ventures/omnibridge-engine/types"
)

func serveCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve token resolution, limits and fee estimates over http",
		Example: strings.TrimSpace(fmt.Sprintf(`
$ %s serve --config %s
$ %s serve -p 2112`, appName, defaultConfigPath, appName)),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			port, err := cmd.Flags().GetInt16(flagMetricsPort)
			if err != nil {
				return err
			}
			a.Metrics = relayer.InitPromMetrics(port)

			client, err := a.dialClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			router, err := NewRouter(a, client)
			if err != nil {
				return err
			}

			addr := a.Config.Api.ListenAddress
			if addr == "" {
				addr = "localhost:8000"
			}
			a.Logger.Info("Serving bridge api", "address", addr)
			return router.Run(addr)
		},
	}
	return cmd
}

// NewRouter builds the http api on top of client.
func NewRouter(a *AppState, client types.ChainClient) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(a.Config.Api.TrustedProxies); err != nil {
		return nil, err
	}

	h := &apiHandler{a: a, engine: a.engineWith(client)}
	router.GET("/directions", h.getDirections)
	router.GET("/tokens/:direction/:chain/:address/counterpart", h.getCounterpart)
	router.GET("/limits/:direction/:chain/:address", h.getLimits)
	router.GET("/estimate/:direction/:chain/:address", h.getEstimate)
	return router, nil
}

type apiHandler struct {
	a      *AppState
	engine *engine
}

type directionInfo struct {
	ID string `json:"id"`
	types.BridgeDirectionConfig
}

func (h *apiHandler) getDirections(c *gin.Context) {
	ids := h.a.Directory.Directions()
	out := make([]directionInfo, 0, len(ids))
	for _, id := range ids {
		cfg, _ := h.a.Directory.Direction(id)
		out = append(out, directionInfo{ID: id, BridgeDirectionConfig: cfg})
	}
	c.IndentedJSON(http.StatusOK, out)
}

func (h *apiHandler) getCounterpart(c *gin.Context) {
	_, pair, ok := h.pair(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, pair)
}

func (h *apiHandler) getLimits(c *gin.Context) {
	direction, pair, ok := h.pair(c)
	if !ok {
		return
	}
	snapshot := h.engine.tokenLimits(c.Request.Context(), direction, pair)
	c.IndentedJSON(http.StatusOK, newLimitsOutput(direction, pair, snapshot))
}

func (h *apiHandler) getEstimate(c *gin.Context) {
	amount, err := parseAmount(c.Query("amount"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	direction, pair, ok := h.pair(c)
	if !ok {
		return
	}
	received, err := h.engine.netAmount(c.Request.Context(), direction, pair, amount)
	if err != nil {
		c.IndentedJSON(statusFor(err), gin.H{"message": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, estimateOutput{
		Direction: direction,
		Pair:      pair,
		Amount:    amount.String(),
		Received:  received.String(),
	})
}

// pair resolves the token named by the request path. It writes the error
// response itself and reports whether the caller should continue.
func (h *apiHandler) pair(c *gin.Context) (string, types.TokenPair, bool) {
	direction := c.Param("direction")
	chainID, address, err := parseToken(c.Param("chain"), c.Param("address"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return "", types.TokenPair{}, false
	}

	pair, err := h.engine.tokenPair(c.Request.Context(), direction, chainID, address)
	if err != nil {
		c.IndentedJSON(statusFor(err), gin.H{"message": err.Error()})
		return "", types.TokenPair{}, false
	}
	return direction, pair, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrUnknownDirection):
		return http.StatusNotFound
	case errors.Is(err, types.ErrUnknownChain),
		errors.Is(err, types.ErrInvalidToken),
		errors.Is(err, types.ErrUnsupportedDirection):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
