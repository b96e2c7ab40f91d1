package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-point/api/pointrpc"
	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
)

type GrpcServer struct {
	core   *usecase.PointUseCase
	logger *slog.Logger
}

func NewGrpcServer(core *usecase.PointUseCase, logger *slog.Logger) *GrpcServer {
	return &GrpcServer{
		core:   core,
		logger: logger,
	}
}

func (s *GrpcServer) Charge(ctx context.Context, req *pointrpc.AmountRequest) (*pointrpc.UserPointReply, error) {
	p, err := s.core.Charge(ctx, req.UserID, req.Amount)
	if err != nil {
		return nil, s.toStatus(ctx, "charge", req.UserID, err)
	}
	return toUserPointReply(p), nil
}

func (s *GrpcServer) Use(ctx context.Context, req *pointrpc.AmountRequest) (*pointrpc.UserPointReply, error) {
	p, err := s.core.Use(ctx, req.UserID, req.Amount)
	if err != nil {
		return nil, s.toStatus(ctx, "use", req.UserID, err)
	}
	return toUserPointReply(p), nil
}

func (s *GrpcServer) GetPoint(ctx context.Context, req *pointrpc.UserRequest) (*pointrpc.UserPointReply, error) {
	p, err := s.core.GetPoint(ctx, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, "get point", req.UserID, err)
	}
	return toUserPointReply(p), nil
}

func (s *GrpcServer) GetHistories(ctx context.Context, req *pointrpc.UserRequest) (*pointrpc.HistoriesReply, error) {
	histories, err := s.core.GetHistories(ctx, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, "get histories", req.UserID, err)
	}
	out := &pointrpc.HistoriesReply{Histories: make([]pointrpc.HistoryReply, 0, len(histories))}
	for _, h := range histories {
		out.Histories = append(out.Histories, pointrpc.HistoryReply{
			ID:           h.ID,
			UserID:       h.UserID,
			Amount:       h.Amount,
			Type:         h.Type.String(),
			UpdateMillis: h.UpdateMillis,
		})
	}
	return out, nil
}

// toStatus 業務錯誤轉為 gRPC status，錯誤類別放在 trailer
//
// 輸入錯誤 -> InvalidArgument, 狀態衝突 -> FailedPrecondition, 其他 -> Internal (不外露細節)
func (s *GrpcServer) toStatus(ctx context.Context, op string, userID int64, err error) error {
	kind := domain.KindOf(err)
	_ = grpc.SetTrailer(ctx, metadata.Pairs(pointrpc.ErrorKindTrailer, kind.String()))
	switch {
	case kind.IsInput():
		return status.Error(codes.InvalidArgument, err.Error())
	case kind.IsConflict():
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.ErrorContext(ctx, "point operation failed", "op", op, "user_id", userID, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toUserPointReply(p domain.UserPoint) *pointrpc.UserPointReply {
	return &pointrpc.UserPointReply{
		ID:           p.ID,
		Point:        p.Point,
		UpdateMillis: p.UpdateMillis,
	}
}

var _ pointrpc.PointServiceServer = (*GrpcServer)(nil)
