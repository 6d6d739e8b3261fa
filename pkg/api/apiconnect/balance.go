package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/mintsense/pkg/api"
)

// BalanceServiceName is the fully-qualified name of the BalanceService.
const BalanceServiceName = "mintsense.v1.BalanceService"

const (
	BalanceServiceGetGroupBalancesProcedure = "/" + BalanceServiceName + "/GetGroupBalances"
	BalanceServiceRecordSettlementProcedure = "/" + BalanceServiceName + "/RecordSettlement"
	BalanceServiceListSettlementsProcedure  = "/" + BalanceServiceName + "/ListSettlements"
	BalanceServiceDeleteSettlementProcedure = "/" + BalanceServiceName + "/DeleteSettlement"
)

// BalanceServiceHandler reports balances and records settlements.
type BalanceServiceHandler interface {
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler for the service and returns the path to mount it on.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opt := handlerOptions(opts)
	return route("/"+BalanceServiceName+"/", map[string]http.Handler{
		BalanceServiceGetGroupBalancesProcedure: unary(BalanceServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opt),
		BalanceServiceRecordSettlementProcedure: unary(BalanceServiceRecordSettlementProcedure, svc.RecordSettlement, opt),
		BalanceServiceListSettlementsProcedure:  unary(BalanceServiceListSettlementsProcedure, svc.ListSettlements, opt),
		BalanceServiceDeleteSettlementProcedure: unary(BalanceServiceDeleteSettlementProcedure, svc.DeleteSettlement, opt),
	})
}

// BalanceServiceClient calls a remote BalanceService.
type BalanceServiceClient struct {
	getGroupBalances *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	recordSettlement *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	listSettlements  *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	deleteSettlement *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
}

// NewBalanceServiceClient creates a client for the service at baseURL (e.g. http://localhost:8080).
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BalanceServiceClient {
	opt := clientOptions(opts)
	return &BalanceServiceClient{
		getGroupBalances: call[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL, BalanceServiceGetGroupBalancesProcedure, opt),
		recordSettlement: call[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL, BalanceServiceRecordSettlementProcedure, opt),
		listSettlements:  call[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL, BalanceServiceListSettlementsProcedure, opt),
		deleteSettlement: call[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL, BalanceServiceDeleteSettlementProcedure, opt),
	}
}

func (c *BalanceServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *BalanceServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *BalanceServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *BalanceServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}
