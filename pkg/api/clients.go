package api

import (
	"context"

	"connectrpc.com/connect"
)

// GroupServiceClient calls GroupService.
type GroupServiceClient struct {
	createGroup *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup    *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups  *connect.Client[ListGroupsRequest, ListGroupsResponse]
	updateGroup *connect.Client[UpdateGroupRequest, UpdateGroupResponse]
	deleteGroup *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
}

func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	opts = clientOptions(opts)
	return &GroupServiceClient{
		createGroup: connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:    connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:  connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		updateGroup: connect.NewClient[UpdateGroupRequest, UpdateGroupResponse](httpClient, baseURL+GroupServiceUpdateGroupProcedure, opts...),
		deleteGroup: connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

// ExpenseServiceClient calls ExpenseService.
type ExpenseServiceClient struct {
	createExpense    *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	getExpense       *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses     *connect.Client[ListExpensesRequest, ListExpensesResponse]
	updateExpense    *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense    *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	previewSplit     *connect.Client[PreviewSplitRequest, PreviewSplitResponse]
	settleAll        *connect.Client[SettleAllRequest, SettleAllResponse]
	recordSettlement *connect.Client[RecordSettlementRequest, RecordSettlementResponse]
}

func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExpenseServiceClient {
	opts = clientOptions(opts)
	return &ExpenseServiceClient{
		createExpense:    connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:       connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:     connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		updateExpense:    connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense:    connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		previewSplit:     connect.NewClient[PreviewSplitRequest, PreviewSplitResponse](httpClient, baseURL+ExpenseServicePreviewSplitProcedure, opts...),
		settleAll:        connect.NewClient[SettleAllRequest, SettleAllResponse](httpClient, baseURL+ExpenseServiceSettleAllProcedure, opts...),
		recordSettlement: connect.NewClient[RecordSettlementRequest, RecordSettlementResponse](httpClient, baseURL+ExpenseServiceRecordSettlementProcedure, opts...),
	}
}

func (c *ExpenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) SettleAll(ctx context.Context, req *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error) {
	return c.settleAll.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

// BalanceServiceClient calls BalanceService.
type BalanceServiceClient struct {
	getBalance *connect.Client[GetBalanceRequest, GetBalanceResponse]
}

func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BalanceServiceClient {
	opts = clientOptions(opts)
	return &BalanceServiceClient{
		getBalance: connect.NewClient[GetBalanceRequest, GetBalanceResponse](httpClient, baseURL+BalanceServiceGetBalanceProcedure, opts...),
	}
}

func (c *BalanceServiceClient) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

// CurrencyServiceClient calls CurrencyService.
type CurrencyServiceClient struct {
	getFxRates     *connect.Client[GetFxRatesRequest, GetFxRatesResponse]
	updateFxRates  *connect.Client[UpdateFxRatesRequest, UpdateFxRatesResponse]
	listCurrencies *connect.Client[ListCurrenciesRequest, ListCurrenciesResponse]
}

func NewCurrencyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CurrencyServiceClient {
	opts = clientOptions(opts)
	return &CurrencyServiceClient{
		getFxRates:     connect.NewClient[GetFxRatesRequest, GetFxRatesResponse](httpClient, baseURL+CurrencyServiceGetFxRatesProcedure, opts...),
		updateFxRates:  connect.NewClient[UpdateFxRatesRequest, UpdateFxRatesResponse](httpClient, baseURL+CurrencyServiceUpdateFxRatesProcedure, opts...),
		listCurrencies: connect.NewClient[ListCurrenciesRequest, ListCurrenciesResponse](httpClient, baseURL+CurrencyServiceListCurrenciesProcedure, opts...),
	}
}

func (c *CurrencyServiceClient) GetFxRates(ctx context.Context, req *connect.Request[GetFxRatesRequest]) (*connect.Response[GetFxRatesResponse], error) {
	return c.getFxRates.CallUnary(ctx, req)
}

func (c *CurrencyServiceClient) UpdateFxRates(ctx context.Context, req *connect.Request[UpdateFxRatesRequest]) (*connect.Response[UpdateFxRatesResponse], error) {
	return c.updateFxRates.CallUnary(ctx, req)
}

func (c *CurrencyServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}
