package grpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/investtrack-backend/internal/adapter/chart"
	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/usecase/dashboard"
	"github.com/simaogato/investtrack-backend/internal/usecase/simulation"
)

const testToken = "test-token-123"

// memorySimulations is an in-memory SimulationRepository; List returns the newest first
type memorySimulations struct {
	mu   sync.Mutex
	sims []*domain.Simulation
}

func (m *memorySimulations) Create(ctx context.Context, sim *domain.Simulation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sim
	m.sims = append(m.sims, &copied)
	return nil
}

func (m *memorySimulations) GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sim := range m.sims {
		if sim.ID == id {
			copied := *sim
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("simulation not found: %w", domain.ErrNotFound)
}

func (m *memorySimulations) List(ctx context.Context) ([]*domain.Simulation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Simulation, 0, len(m.sims))
	for i := len(m.sims) - 1; i >= 0; i-- {
		copied := *m.sims[i]
		copied.YearlyResults = nil
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memorySimulations) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, sim := range m.sims {
		if sim.ID == id {
			m.sims = append(m.sims[:i], m.sims[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("simulation not found: %w", domain.ErrNotFound)
}

// memoryPortfolios is a read-only PortfolioRepository
type memoryPortfolios []*domain.Portfolio

func (m memoryPortfolios) List(ctx context.Context) ([]*domain.Portfolio, error) {
	return m, nil
}

func (m memoryPortfolios) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	for _, p := range m {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("portfolio not found: %w", domain.ErrNotFound)
}

func testPortfolio() *domain.Portfolio {
	newHolding := func(name string, assetType domain.AssetType, price, qty, initial string) domain.Holding {
		return domain.Holding{
			ID: uuid.New(),
			Asset: &domain.Asset{
				ID:           uuid.New(),
				Type:         assetType,
				CurrentPrice: decimal.RequireFromString(price),
				Name:         name,
				Symbol:       name[:3],
			},
			Quantity:      decimal.RequireFromString(qty),
			PurchasePrice: decimal.NewFromInt(1),
			InitialAmount: decimal.RequireFromString(initial),
			PurchaseDate:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	acme := newHolding("Acme", domain.AssetTypeStock, "6", "100", "500")
	acme.Transactions = []domain.Transaction{{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeBuy,
		Quantity:        decimal.NewFromInt(100),
		Price:           decimal.NewFromInt(5),
		TransactionDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	return &domain.Portfolio{
		ID:   uuid.New(),
		Name: "Growth",
		Holdings: []domain.Holding{
			acme,
			newHolding("Treasury", domain.AssetTypeBond, "100", "4", "400"),
		},
	}
}

func startServer(t *testing.T, portfolios ...*domain.Portfolio) *Client {
	t.Helper()

	sims := &memorySimulations{}
	server := NewServer(
		simulation.NewSimulationService(sims, nil),
		dashboard.NewDashboardService(memoryPortfolios(portfolios), sims, nil),
		"",
	)

	lis := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(LoggingInterceptor(nil), AuthInterceptor(testToken)),
	)
	RegisterInvestTrackServiceServer(grpcServer, server)
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func request(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func retirementRequest(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": "Baseline",
		"plan": map[string]interface{}{
			"initial_investment":        "10000",
			"monthly_contribution":      "500",
			"annual_return_rate":        "8",
			"investment_duration_years": 30,
			"inflation_rate":            "2",
			"tax_rate":                  "0",
		},
	}
}

func field(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func assertCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "error should be a gRPC status")
	assert.Equal(t, code, st.Code(), st.Message())
}

func TestServer_RequiresToken(t *testing.T) {
	client := startServer(t)

	_, err := client.Call(context.Background(), MethodListSimulations, &structpb.Struct{})
	assertCode(t, err, codes.Unauthenticated)
}

func TestServer_PreviewPlan(t *testing.T) {
	client := startServer(t)

	resp, err := client.Call(authed(), MethodPreviewPlan, request(t, retirementRequest("ignored")))
	require.NoError(t, err)

	assert.Equal(t, "190000.00", field(resp, "total_contributions"))
	final := decimal.RequireFromString(field(resp, "estimated_final_amount"))
	assert.True(t, final.GreaterThan(decimal.NewFromInt(190000)))
}

func TestServer_PreviewPlan_BadNumber(t *testing.T) {
	client := startServer(t)

	_, err := client.Call(authed(), MethodPreviewPlan, request(t, map[string]interface{}{
		"initial_investment": "ten thousand",
	}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestServer_SimulationLifecycle(t *testing.T) {
	client := startServer(t)
	ctx := authed()

	created, err := client.Call(ctx, MethodCreateSimulation, request(t, retirementRequest("Retirement")))
	require.NoError(t, err)

	id := field(created, "id")
	require.NotEmpty(t, id)
	assert.Equal(t, "Retirement", field(created, "name"))
	assert.Len(t, created.GetFields()["yearly_results"].GetListValue().GetValues(), 30)
	summary := created.GetFields()["summary"].GetStructValue()
	assert.Equal(t, "190000.00", field(summary, "total_contributions"))

	_, err = client.Call(ctx, MethodCreateSimulation, request(t, retirementRequest("College")))
	require.NoError(t, err)

	fetched, err := client.Call(ctx, MethodGetSimulation, request(t, map[string]interface{}{"id": id}))
	require.NoError(t, err)
	assert.Equal(t, field(summary, "final_amount"), field(fetched.GetFields()["summary"].GetStructValue(), "final_amount"))

	listed, err := client.Call(ctx, MethodListSimulations, request(t, map[string]interface{}{"search": "retire"}))
	require.NoError(t, err)
	assert.Equal(t, float64(1), listed.GetFields()["total_count"].GetNumberValue())

	all, err := client.Call(ctx, MethodListSimulations, &structpb.Struct{})
	require.NoError(t, err)
	sims := all.GetFields()["simulations"].GetListValue().GetValues()
	require.Len(t, sims, 2)
	assert.Equal(t, "College", field(sims[0].GetStructValue(), "name"))
	assert.NotContains(t, sims[0].GetStructValue().GetFields(), "yearly_results")

	rendered, err := client.Call(ctx, MethodRenderSimulationChart, request(t, map[string]interface{}{"id": id}))
	require.NoError(t, err)
	assert.Equal(t, "image/png", field(rendered, "content_type"))
	png, err := base64.StdEncoding.DecodeString(field(rendered, "png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = client.Call(ctx, MethodDeleteSimulation, request(t, map[string]interface{}{"id": id}))
	require.NoError(t, err)

	_, err = client.Call(ctx, MethodGetSimulation, request(t, map[string]interface{}{"id": id}))
	assertCode(t, err, codes.NotFound)

	_, err = client.Call(ctx, MethodDeleteSimulation, request(t, map[string]interface{}{"id": id}))
	assertCode(t, err, codes.NotFound)
}

func TestServer_CloneSimulation(t *testing.T) {
	client := startServer(t)
	ctx := authed()

	created, err := client.Call(ctx, MethodCreateSimulation, request(t, retirementRequest("Retirement")))
	require.NoError(t, err)
	id := field(created, "id")

	clone, err := client.Call(ctx, MethodCloneSimulation, request(t, map[string]interface{}{"id": id}))
	require.NoError(t, err)
	assert.NotEqual(t, id, field(clone, "id"))
	assert.Equal(t, "Retirement (copy)", field(clone, "name"))
	assert.Equal(t,
		field(created.GetFields()["summary"].GetStructValue(), "final_amount"),
		field(clone.GetFields()["summary"].GetStructValue(), "final_amount"))

	named, err := client.Call(ctx, MethodCloneSimulation, request(t, map[string]interface{}{"id": id, "name": "Early retirement"}))
	require.NoError(t, err)
	assert.Equal(t, "Early retirement", field(named, "name"))

	_, err = client.Call(ctx, MethodCloneSimulation, request(t, map[string]interface{}{"id": id, "name": "x"}))
	assertCode(t, err, codes.InvalidArgument)

	_, err = client.Call(ctx, MethodCloneSimulation, request(t, map[string]interface{}{"id": uuid.NewString()}))
	assertCode(t, err, codes.NotFound)
}

func TestServer_CreateSimulation_Invalid(t *testing.T) {
	client := startServer(t)
	ctx := authed()

	badPlan := retirementRequest("Retirement")
	badPlan["plan"].(map[string]interface{})["tax_rate"] = "101"
	_, err := client.Call(ctx, MethodCreateSimulation, request(t, badPlan))
	assertCode(t, err, codes.InvalidArgument)

	_, err = client.Call(ctx, MethodCreateSimulation, request(t, retirementRequest("")))
	assertCode(t, err, codes.InvalidArgument)

	fractional := retirementRequest("Fraction")
	fractional["plan"].(map[string]interface{})["investment_duration_years"] = 2.5
	_, err = client.Call(ctx, MethodCreateSimulation, request(t, fractional))
	assertCode(t, err, codes.InvalidArgument)
}

func TestServer_GetSimulation_BadID(t *testing.T) {
	client := startServer(t)

	_, err := client.Call(authed(), MethodGetSimulation, request(t, map[string]interface{}{"id": "not-a-uuid"}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestServer_GetDashboard(t *testing.T) {
	p := testPortfolio()
	client := startServer(t, p)

	resp, err := client.Call(authed(), MethodGetDashboard, &structpb.Struct{})
	require.NoError(t, err)

	totals := resp.GetFields()["totals"].GetStructValue()
	assert.Equal(t, "1000.00", field(totals, "total_value"))
	assert.Equal(t, "900.00", field(totals, "total_invested"))
	assert.Equal(t, "11.11", field(totals, "performance_percentage"))

	allocation := resp.GetFields()["allocation"].GetListValue().GetValues()
	require.Len(t, allocation, 2)
	assert.Equal(t, "STOCK", field(allocation[0].GetStructValue(), "type"))
	assert.Equal(t, "60.00", field(allocation[0].GetStructValue(), "percentage"))

	txs := resp.GetFields()["recent_transactions"].GetListValue().GetValues()
	require.Len(t, txs, 1)
	assert.Equal(t, "500.00", field(txs[0].GetStructValue(), "amount"))
	assert.Equal(t, "Growth", field(txs[0].GetStructValue(), "portfolio_name"))

	_, err = client.Call(authed(), MethodGetDashboard, request(t, map[string]interface{}{"transactions_limit": -1}))
	assertCode(t, err, codes.InvalidArgument)
}

func TestServer_GetPortfolio(t *testing.T) {
	p := testPortfolio()
	client := startServer(t, p)
	ctx := authed()

	resp, err := client.Call(ctx, MethodGetPortfolio, request(t, map[string]interface{}{
		"id":             p.ID.String(),
		"sort_key":       "currentValue",
		"sort_direction": "desc",
	}))
	require.NoError(t, err)

	holdings := resp.GetFields()["holdings"].GetListValue().GetValues()
	require.Len(t, holdings, 2)
	first := holdings[0].GetStructValue()
	assert.Equal(t, "600.00", field(first, "current_value"))
	assert.Equal(t, "20.00", field(first, "profit_loss_percentage"))
	assert.Equal(t, "Acme", field(first.GetFields()["asset"].GetStructValue(), "name"))

	_, err = client.Call(ctx, MethodGetPortfolio, request(t, map[string]interface{}{
		"id":       p.ID.String(),
		"sort_key": "owner",
	}))
	assertCode(t, err, codes.InvalidArgument)

	_, err = client.Call(ctx, MethodGetPortfolio, request(t, map[string]interface{}{"id": uuid.New().String()}))
	assertCode(t, err, codes.NotFound)
}

func TestServer_ListPortfolios(t *testing.T) {
	growth := testPortfolio()
	income := &domain.Portfolio{ID: uuid.New(), Name: "Income", Description: "Dividend payers"}
	client := startServer(t, growth, income)
	ctx := authed()

	resp, err := client.Call(ctx, MethodListPortfolios, request(t, map[string]interface{}{"search": "DIVIDEND"}))
	require.NoError(t, err)
	assert.Equal(t, float64(1), resp.GetFields()["total_count"].GetNumberValue())
	list := resp.GetFields()["portfolios"].GetListValue().GetValues()
	require.Len(t, list, 1)
	assert.Equal(t, income.ID.String(), field(list[0].GetStructValue(), "id"))

	resp, err = client.Call(ctx, MethodListPortfolios, &structpb.Struct{})
	require.NoError(t, err)
	list = resp.GetFields()["portfolios"].GetListValue().GetValues()
	require.Len(t, list, 2)
	summary := list[0].GetStructValue().GetFields()["summary"].GetStructValue()
	assert.Equal(t, "1000.00", field(summary, "total_value"))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"plan parameter", &domain.PlanParameterError{Field: "tax_rate", Reason: "must be between 0 and 100"}, codes.InvalidArgument},
		{"validation", fmt.Errorf("create: %w", &domain.ValidationError{Message: "name is required"}), codes.InvalidArgument},
		{"not found", fmt.Errorf("get: %w", domain.ErrNotFound), codes.NotFound},
		{"no chart data", chart.ErrNoData, codes.FailedPrecondition},
		{"message fallback", errors.New("amount must be positive"), codes.InvalidArgument},
		{"status passthrough", status.Error(codes.PermissionDenied, "nope"), codes.PermissionDenied},
		{"unknown", errors.New("connection reset"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(mapError(tt.err)))
		})
	}

	assert.NoError(t, mapError(nil))
}
