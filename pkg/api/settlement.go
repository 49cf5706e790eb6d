package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const SettlementServiceName = "wildpay.v1.SettlementService"

const SettlementServiceGetGroupBalancesProcedure = "/wildpay.v1.SettlementService/GetGroupBalances"

// SettlementServiceHandler computes who owes whom.
type SettlementServiceHandler interface {
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
}

// NewSettlementServiceHandler returns the mount path and handler for svc.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		SettlementServiceGetGroupBalancesProcedure: connect.NewUnaryHandler(SettlementServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...),
	}
	return "/" + SettlementServiceName + "/", router(routes)
}

// SettlementServiceClient calls a remote SettlementService.
type SettlementServiceClient struct {
	getGroupBalances *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
}

func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettlementServiceClient {
	return &SettlementServiceClient{
		getGroupBalances: connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](
			httpClient, trimSlash(baseURL)+SettlementServiceGetGroupBalancesProcedure, clientOptions(opts)...),
	}
}

func (c *SettlementServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}
