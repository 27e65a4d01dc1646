// Package api defines the WeSplit RPC surface: message types, procedure
// names, and Connect handler and client constructors using a JSON codec.
package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	GroupServiceName    = "wesplit.v1.GroupService"
	ExpenseServiceName  = "wesplit.v1.ExpenseService"
	BalanceServiceName  = "wesplit.v1.BalanceService"
	CurrencyServiceName = "wesplit.v1.CurrencyService"
)

// Fully-qualified procedure names, used as HTTP paths.
const (
	GroupServiceCreateGroupProcedure = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure    = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupsProcedure  = "/" + GroupServiceName + "/ListGroups"
	GroupServiceUpdateGroupProcedure = "/" + GroupServiceName + "/UpdateGroup"
	GroupServiceDeleteGroupProcedure = "/" + GroupServiceName + "/DeleteGroup"

	ExpenseServiceCreateExpenseProcedure    = "/" + ExpenseServiceName + "/CreateExpense"
	ExpenseServiceGetExpenseProcedure       = "/" + ExpenseServiceName + "/GetExpense"
	ExpenseServiceListExpensesProcedure     = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceUpdateExpenseProcedure    = "/" + ExpenseServiceName + "/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure    = "/" + ExpenseServiceName + "/DeleteExpense"
	ExpenseServicePreviewSplitProcedure     = "/" + ExpenseServiceName + "/PreviewSplit"
	ExpenseServiceSettleAllProcedure        = "/" + ExpenseServiceName + "/SettleAll"
	ExpenseServiceRecordSettlementProcedure = "/" + ExpenseServiceName + "/RecordSettlement"

	BalanceServiceGetBalanceProcedure = "/" + BalanceServiceName + "/GetBalance"

	CurrencyServiceGetFxRatesProcedure     = "/" + CurrencyServiceName + "/GetFxRates"
	CurrencyServiceUpdateFxRatesProcedure  = "/" + CurrencyServiceName + "/UpdateFxRates"
	CurrencyServiceListCurrenciesProcedure = "/" + CurrencyServiceName + "/ListCurrencies"
)

// PublicProcedures can be called without a bearer token.
var PublicProcedures = []string{
	CurrencyServiceGetFxRatesProcedure,
}

type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	UpdateGroup(context.Context, *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
}

type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	SettleAll(context.Context, *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
}

type BalanceServiceHandler interface {
	GetBalance(context.Context, *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error)
}

type CurrencyServiceHandler interface {
	GetFxRates(context.Context, *connect.Request[GetFxRatesRequest]) (*connect.Response[GetFxRatesResponse], error)
	UpdateFxRates(context.Context, *connect.Request[UpdateFxRatesRequest]) (*connect.Response[UpdateFxRatesResponse], error)
	ListCurrencies(context.Context, *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error)
}

// routes maps procedure paths to their handlers and serves them under one prefix.
type routes map[string]http.Handler

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{WithJSON()}, opts...)
}

// NewGroupServiceHandler builds an HTTP handler for GroupService and
// returns the path prefix to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", routes{
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceUpdateGroupProcedure: connect.NewUnaryHandler(GroupServiceUpdateGroupProcedure, svc.UpdateGroup, opts...),
		GroupServiceDeleteGroupProcedure: connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
	}
}

// NewExpenseServiceHandler builds an HTTP handler for ExpenseService.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ExpenseServiceName + "/", routes{
		ExpenseServiceCreateExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceGetExpenseProcedure:       connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...),
		ExpenseServiceListExpensesProcedure:     connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
		ExpenseServiceUpdateExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		ExpenseServiceDeleteExpenseProcedure:    connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		ExpenseServicePreviewSplitProcedure:     connect.NewUnaryHandler(ExpenseServicePreviewSplitProcedure, svc.PreviewSplit, opts...),
		ExpenseServiceSettleAllProcedure:        connect.NewUnaryHandler(ExpenseServiceSettleAllProcedure, svc.SettleAll, opts...),
		ExpenseServiceRecordSettlementProcedure: connect.NewUnaryHandler(ExpenseServiceRecordSettlementProcedure, svc.RecordSettlement, opts...),
	}
}

// NewBalanceServiceHandler builds an HTTP handler for BalanceService.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + BalanceServiceName + "/", routes{
		BalanceServiceGetBalanceProcedure: connect.NewUnaryHandler(BalanceServiceGetBalanceProcedure, svc.GetBalance, opts...),
	}
}

// NewCurrencyServiceHandler builds an HTTP handler for CurrencyService.
func NewCurrencyServiceHandler(svc CurrencyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + CurrencyServiceName + "/", routes{
		CurrencyServiceGetFxRatesProcedure:     connect.NewUnaryHandler(CurrencyServiceGetFxRatesProcedure, svc.GetFxRates, opts...),
		CurrencyServiceUpdateFxRatesProcedure:  connect.NewUnaryHandler(CurrencyServiceUpdateFxRatesProcedure, svc.UpdateFxRates, opts...),
		CurrencyServiceListCurrenciesProcedure: connect.NewUnaryHandler(CurrencyServiceListCurrenciesProcedure, svc.ListCurrencies, opts...),
	}
}
