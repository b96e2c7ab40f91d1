package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-point/api/pointrpc"
	grpcpkg "github.com/JoeShih716/go-mem-point/pkg/grpc"
	"github.com/JoeShih716/go-mem-point/pkg/logger"
)

func main() {
	target := flag.String("target", "localhost:50051", "gRPC server address")
	total := flag.Int("total", 10000, "number of charge requests")
	concurrency := flag.Int("concurrency", 100, "max in-flight requests")
	userID := flag.Int64("user", 1, "account to charge")
	amount := flag.Int64("amount", 100, "amount per charge")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	log := logger.New("info", "text")

	pool := grpcpkg.NewPool(grpcpkg.WithInterceptor(grpcpkg.RequestIDInterceptor()))
	defer pool.Close()
	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Error("did not connect", "target", *target, "error", err)
		os.Exit(1)
	}
	c := pointrpc.NewPointServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	before, err := c.GetPoint(ctx, &pointrpc.UserRequest{UserID: *userID})
	if err != nil {
		log.Error("GetPoint failed", "error", err)
		os.Exit(1)
	}

	var accepted, rejected, failed atomic.Int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, *concurrency)
	start := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := c.Charge(ctx, &pointrpc.AmountRequest{UserID: *userID, Amount: *amount})
			switch {
			case err == nil:
				accepted.Add(1)
			case isRejected(err):
				rejected.Add(1)
			default:
				failed.Add(1)
				if idx%1000 == 0 {
					log.Warn("charge failed", "idx", idx, "error", err)
				}
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	after, err := c.GetPoint(ctx, &pointrpc.UserRequest{UserID: *userID})
	if err != nil {
		log.Error("GetPoint failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Completed %d requests in %v\n", *total, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	fmt.Printf("Accepted: %d, Rejected: %d, Failed: %d\n", accepted.Load(), rejected.Load(), failed.Load())
	expected := before.Point + accepted.Load()*(*amount)
	fmt.Printf("Balance: %d -> %d (expected %d)\n", before.Point, after.Point, expected)
	if after.Point != expected {
		os.Exit(2)
	}
}

// isRejected 業務拒絕 (例如超過餘額上限)，不算失敗
func isRejected(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	code := status.Code(err)
	return code == codes.InvalidArgument || code == codes.FailedPrecondition
}
