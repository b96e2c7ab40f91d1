// Package pointrpc 定義 point.v1.PointService 的 gRPC 介面 (訊息以 JSON codec 傳輸)
package pointrpc

import (
	"context"

	"google.golang.org/grpc"

	grpcpkg "github.com/JoeShih716/go-mem-point/pkg/grpc"
)

const (
	ServiceName = "point.v1.PointService"

	ChargeMethod       = "/" + ServiceName + "/Charge"
	UseMethod          = "/" + ServiceName + "/Use"
	GetPointMethod     = "/" + ServiceName + "/GetPoint"
	GetHistoriesMethod = "/" + ServiceName + "/GetHistories"

	// ErrorKindTrailer 失敗時 trailer 帶上錯誤類別 (domain.ErrorKind.String())
	ErrorKindTrailer = "point-error-kind"
)

// AmountRequest Charge / Use 請求
type AmountRequest struct {
	UserID int64 `json:"userId"`
	Amount int64 `json:"amount"`
}

// UserRequest 查詢請求
type UserRequest struct {
	UserID int64 `json:"userId"`
}

// UserPointReply 帳戶餘額
type UserPointReply struct {
	ID           int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}

// HistoryReply 單筆交易紀錄，Type 為 "CHARGE" / "USE"
type HistoryReply struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	Amount       int64  `json:"amount"`
	Type         string `json:"type"`
	UpdateMillis int64  `json:"updateMillis"`
}

// HistoriesReply 帳戶的所有交易紀錄
type HistoriesReply struct {
	Histories []HistoryReply `json:"histories"`
}

// PointServiceServer Server 端需實作的介面
type PointServiceServer interface {
	Charge(context.Context, *AmountRequest) (*UserPointReply, error)
	Use(context.Context, *AmountRequest) (*UserPointReply, error)
	GetPoint(context.Context, *UserRequest) (*UserPointReply, error)
	GetHistories(context.Context, *UserRequest) (*HistoriesReply, error)
}

// RegisterPointServiceServer 註冊服務
func RegisterPointServiceServer(s grpc.ServiceRegistrar, srv PointServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc point.v1.PointService 的描述
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PointServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Charge", Handler: unaryHandler(ChargeMethod, PointServiceServer.Charge)},
		{MethodName: "Use", Handler: unaryHandler(UseMethod, PointServiceServer.Use)},
		{MethodName: "GetPoint", Handler: unaryHandler(GetPointMethod, PointServiceServer.GetPoint)},
		{MethodName: "GetHistories", Handler: unaryHandler(GetHistoriesMethod, PointServiceServer.GetHistories)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "point/v1/point.json",
}

// unaryHandler 產生 MethodDesc.Handler：解碼請求，經過攔截器後呼叫實作
func unaryHandler[Req, Reply any](fullMethod string, call func(PointServiceServer, context.Context, *Req) (*Reply, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PointServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PointServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PointServiceClient 客戶端
type PointServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPointServiceClient 建立客戶端，每次呼叫都強制使用 JSON codec
func NewPointServiceClient(cc grpc.ClientConnInterface) *PointServiceClient {
	return &PointServiceClient{cc: cc}
}

func (c *PointServiceClient) Charge(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*UserPointReply, error) {
	out := new(UserPointReply)
	if err := c.invoke(ctx, ChargeMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PointServiceClient) Use(ctx context.Context, in *AmountRequest, opts ...grpc.CallOption) (*UserPointReply, error) {
	out := new(UserPointReply)
	if err := c.invoke(ctx, UseMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PointServiceClient) GetPoint(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*UserPointReply, error) {
	out := new(UserPointReply)
	if err := c.invoke(ctx, GetPointMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PointServiceClient) GetHistories(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*HistoriesReply, error) {
	out := new(HistoriesReply)
	if err := c.invoke(ctx, GetHistoriesMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PointServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(grpcpkg.CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, callOpts...)
}
