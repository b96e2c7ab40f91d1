package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-mem-point/api/pointrpc"
	"github.com/JoeShih716/go-mem-point/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
	grpcpkg "github.com/JoeShih716/go-mem-point/pkg/grpc"
)

// newTestClient 以 bufconn 啟動完整的 gRPC Server 並回傳客戶端
func newTestClient(t *testing.T) *pointrpc.PointServiceClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	core := usecase.NewPointUseCase(memory.NewBalanceTable(), memory.NewHistoryTable())

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLogging(logger)))
	pointrpc.RegisterPointServiceServer(s, NewGrpcServer(core, logger))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return pointrpc.NewPointServiceClient(conn)
}

func TestGrpcChargeUseAndQuery(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	p, err := c.Charge(ctx, &pointrpc.AmountRequest{UserID: 1, Amount: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 1 || p.Point != 1000 {
		t.Fatalf("charge reply=%+v", p)
	}
	if p, err = c.Use(ctx, &pointrpc.AmountRequest{UserID: 1, Amount: 300}); err != nil || p.Point != 700 {
		t.Fatalf("use reply=%+v err=%v", p, err)
	}
	if p, err = c.GetPoint(ctx, &pointrpc.UserRequest{UserID: 1}); err != nil || p.Point != 700 {
		t.Fatalf("get reply=%+v err=%v", p, err)
	}

	h, err := c.GetHistories(ctx, &pointrpc.UserRequest{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Histories) != 2 || h.Histories[0].Type != "CHARGE" || h.Histories[1].Type != "USE" || h.Histories[1].Amount != 300 {
		t.Fatalf("histories=%+v", h.Histories)
	}

	empty, err := c.GetHistories(ctx, &pointrpc.UserRequest{UserID: 2})
	if err != nil || len(empty.Histories) != 0 {
		t.Fatalf("empty histories=%+v err=%v", empty, err)
	}
}

func TestGrpcErrorMapping(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	if _, err := c.Charge(ctx, &pointrpc.AmountRequest{UserID: 1, Amount: 1000}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		call     func(opts ...grpc.CallOption) error
		wantCode codes.Code
		wantKind string
	}{
		{"negative charge", func(opts ...grpc.CallOption) error {
			_, err := c.Charge(ctx, &pointrpc.AmountRequest{UserID: 1, Amount: -1}, opts...)
			return err
		}, codes.InvalidArgument, "INVALID_AMOUNT"},
		{"below minimum", func(opts ...grpc.CallOption) error {
			_, err := c.Charge(ctx, &pointrpc.AmountRequest{UserID: 1, Amount: 50}, opts...)
			return err
		}, codes.InvalidArgument, "BELOW_MINIMUM_CHARGE"},
		{"above maximum", func(opts ...grpc.CallOption) error {
			_, err := c.Charge(ctx, &pointrpc.AmountRequest{UserID: 1, Amount: 1_000_001}, opts...)
			return err
		}, codes.InvalidArgument, "ABOVE_MAXIMUM_CHARGE"},
		{"insufficient", func(opts ...grpc.CallOption) error {
			_, err := c.Use(ctx, &pointrpc.AmountRequest{UserID: 1, Amount: 9999}, opts...)
			return err
		}, codes.FailedPrecondition, "INSUFFICIENT_BALANCE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var trailer metadata.MD
			err := tc.call(grpc.Trailer(&trailer))
			if code := status.Code(err); code != tc.wantCode {
				t.Fatalf("code=%v want=%v (err=%v)", code, tc.wantCode, err)
			}
			if kinds := trailer.Get(pointrpc.ErrorKindTrailer); len(kinds) != 1 || kinds[0] != tc.wantKind {
				t.Fatalf("kind trailer=%v want=%s", kinds, tc.wantKind)
			}
		})
	}

	p, _ := c.GetPoint(ctx, &pointrpc.UserRequest{UserID: 1})
	if p.Point != 1000 {
		t.Fatalf("point=%d want=1000 after rejected calls", p.Point)
	}
}

func TestGrpcRequestIDHeader(t *testing.T) {
	c := newTestClient(t)

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), grpcpkg.RequestIDKey, "req-1")
	if _, err := c.GetPoint(ctx, &pointrpc.UserRequest{UserID: 1}, grpc.Header(&header)); err != nil {
		t.Fatal(err)
	}
	if ids := header.Get(grpcpkg.RequestIDKey); len(ids) != 1 || ids[0] != "req-1" {
		t.Fatalf("request id header=%v", ids)
	}

	header = nil
	if _, err := c.GetPoint(context.Background(), &pointrpc.UserRequest{UserID: 1}, grpc.Header(&header)); err != nil {
		t.Fatal(err)
	}
	if ids := header.Get(grpcpkg.RequestIDKey); len(ids) != 1 || ids[0] == "" {
		t.Fatalf("generated request id header=%v", ids)
	}
}

func TestGrpcConcurrentCharges(t *testing.T) {
	c := newTestClient(t)
	const callers, amount = 100, 100

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Charge(context.Background(), &pointrpc.AmountRequest{UserID: 7, Amount: amount}); err != nil {
				t.Errorf("charge err=%v", err)
			}
		}()
	}
	wg.Wait()

	p, err := c.GetPoint(context.Background(), &pointrpc.UserRequest{UserID: 7})
	if err != nil {
		t.Fatal(err)
	}
	if p.Point != callers*amount {
		t.Fatalf("point=%d want=%d", p.Point, callers*amount)
	}
}
