package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ExpenditureServiceName = "wildpay.v1.ExpenditureService"

const (
	ExpenditureServiceCreateExpenditureProcedure = "/wildpay.v1.ExpenditureService/CreateExpenditure"
	ExpenditureServiceListExpendituresProcedure  = "/wildpay.v1.ExpenditureService/ListExpenditures"
	ExpenditureServiceUpdateExpenditureProcedure = "/wildpay.v1.ExpenditureService/UpdateExpenditure"
	ExpenditureServiceDeleteExpenditureProcedure = "/wildpay.v1.ExpenditureService/DeleteExpenditure"
)

// ExpenditureServiceHandler records a group's spending.
type ExpenditureServiceHandler interface {
	CreateExpenditure(context.Context, *connect.Request[CreateExpenditureRequest]) (*connect.Response[CreateExpenditureResponse], error)
	ListExpenditures(context.Context, *connect.Request[ListExpendituresRequest]) (*connect.Response[ListExpendituresResponse], error)
	UpdateExpenditure(context.Context, *connect.Request[UpdateExpenditureRequest]) (*connect.Response[UpdateExpenditureResponse], error)
	DeleteExpenditure(context.Context, *connect.Request[DeleteExpenditureRequest]) (*connect.Response[emptypb.Empty], error)
}

// NewExpenditureServiceHandler returns the mount path and handler for svc.
func NewExpenditureServiceHandler(svc ExpenditureServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		ExpenditureServiceCreateExpenditureProcedure: connect.NewUnaryHandler(ExpenditureServiceCreateExpenditureProcedure, svc.CreateExpenditure, opts...),
		ExpenditureServiceListExpendituresProcedure:  connect.NewUnaryHandler(ExpenditureServiceListExpendituresProcedure, svc.ListExpenditures, opts...),
		ExpenditureServiceUpdateExpenditureProcedure: connect.NewUnaryHandler(ExpenditureServiceUpdateExpenditureProcedure, svc.UpdateExpenditure, opts...),
		ExpenditureServiceDeleteExpenditureProcedure: connect.NewUnaryHandler(ExpenditureServiceDeleteExpenditureProcedure, svc.DeleteExpenditure, opts...),
	}
	return "/" + ExpenditureServiceName + "/", router(routes)
}

// ExpenditureServiceClient calls a remote ExpenditureService.
type ExpenditureServiceClient struct {
	createExpenditure *connect.Client[CreateExpenditureRequest, CreateExpenditureResponse]
	listExpenditures  *connect.Client[ListExpendituresRequest, ListExpendituresResponse]
	updateExpenditure *connect.Client[UpdateExpenditureRequest, UpdateExpenditureResponse]
	deleteExpenditure *connect.Client[DeleteExpenditureRequest, emptypb.Empty]
}

// NewExpenditureServiceClient builds a client for the service at baseURL.
func NewExpenditureServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExpenditureServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &ExpenditureServiceClient{
		createExpenditure: connect.NewClient[CreateExpenditureRequest, CreateExpenditureResponse](httpClient, baseURL+ExpenditureServiceCreateExpenditureProcedure, opts...),
		listExpenditures:  connect.NewClient[ListExpendituresRequest, ListExpendituresResponse](httpClient, baseURL+ExpenditureServiceListExpendituresProcedure, opts...),
		updateExpenditure: connect.NewClient[UpdateExpenditureRequest, UpdateExpenditureResponse](httpClient, baseURL+ExpenditureServiceUpdateExpenditureProcedure, opts...),
		deleteExpenditure: connect.NewClient[DeleteExpenditureRequest, emptypb.Empty](httpClient, baseURL+ExpenditureServiceDeleteExpenditureProcedure, opts...),
	}
}

func (c *ExpenditureServiceClient) CreateExpenditure(ctx context.Context, req *connect.Request[CreateExpenditureRequest]) (*connect.Response[CreateExpenditureResponse], error) {
	return c.createExpenditure.CallUnary(ctx, req)
}

func (c *ExpenditureServiceClient) ListExpenditures(ctx context.Context, req *connect.Request[ListExpendituresRequest]) (*connect.Response[ListExpendituresResponse], error) {
	return c.listExpenditures.CallUnary(ctx, req)
}

func (c *ExpenditureServiceClient) UpdateExpenditure(ctx context.Context, req *connect.Request[UpdateExpenditureRequest]) (*connect.Response[UpdateExpenditureResponse], error) {
	return c.updateExpenditure.CallUnary(ctx, req)
}

func (c *ExpenditureServiceClient) DeleteExpenditure(ctx context.Context, req *connect.Request[DeleteExpenditureRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteExpenditure.CallUnary(ctx, req)
}
