// Package rpc exposes the scheduler service over gRPC with a JSON codec,
// mirroring the HTTP API method for method.
package rpc

import (
	"context"
	"errors"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"driver-scheduler/internal/middleware"
	"driver-scheduler/internal/model"
	"driver-scheduler/internal/service"
)

const ServiceName = "scheduler.v1.SchedulerService"

func method(name string) string {
	return "/" + ServiceName + "/" + name
}

type Server struct {
	svc *service.Service
}

// scheduler is only used for the RegisterService type check.
type scheduler interface {
	Login(context.Context, *service.Credentials) (*service.LoginResult, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*scheduler)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", (*Server).Login),
		unary("PatternStatus", (*Server).PatternStatus),
		unary("SetupPattern", (*Server).SetupPattern),
		unary("CreateAppointmentType", (*Server).CreateAppointmentType),
		unary("ListAppointmentTypes", (*Server).ListAppointmentTypes),
		unary("UpdateAppointmentType", (*Server).UpdateAppointmentType),
		unary("DeleteAppointmentType", (*Server).DeleteAppointmentType),
		unary("CreateAppointment", (*Server).CreateAppointment),
		unary("ListAppointments", (*Server).ListAppointments),
		unary("GetAppointment", (*Server).GetAppointment),
		unary("UpdateAppointment", (*Server).UpdateAppointment),
		unary("DeleteAppointment", (*Server).DeleteAppointment),
		unary("IncomeStats", (*Server).IncomeStats),
		unary("IncomeReport", (*Server).IncomeReport),
		unary("RenderSMS", (*Server).RenderSMS),
		unary("GetSMSTemplate", (*Server).GetSMSTemplate),
		unary("SaveSMSTemplate", (*Server).SaveSMSTemplate),
	},
	Metadata: "scheduler/v1/scheduler.json",
}

// unary builds a method whose request is decoded into a fresh Req and
// whose errors leave as gRPC statuses.
func unary[Req, Resp any](name string, call func(*Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, icpt grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, status.Error(codes.InvalidArgument, "Invalid request body")
			}
			h := func(ctx context.Context, req any) (any, error) {
				resp, err := call(srv.(*Server), ctx, req.(*Req))
				if err != nil {
					return nil, toStatus(name, err)
				}
				return resp, nil
			}
			if icpt == nil {
				return h(ctx, in)
			}
			return icpt(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: method(name)}, h)
		},
	}
}

func toStatus(name string, err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, service.ErrBadRequest):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrUnauthorized):
		code = codes.Unauthenticated
	case errors.Is(err, service.ErrNotFound):
		code = codes.NotFound
	}
	msg := service.Message(err)
	if code == codes.Internal || msg == "" {
		log.Printf("[gRPC] %s error: %v", name, err)
		return status.Error(codes.Internal, "Internal server error")
	}
	return status.Error(code, msg)
}

// HealthInterval is how often the health service pings the store.
var HealthInterval = 15 * time.Second

// NewServer registers the scheduler and health services. Login and
// PatternStatus need no token; Login is rate limited by peer when rl is
// set. Health follows store pings until ctx ends.
func NewServer(ctx context.Context, svc *service.Service, rl *middleware.RateLimiter, opts ...grpc.ServerOption) *grpc.Server {
	open := map[string]bool{
		method("Login"):                      true,
		method("PatternStatus"):              true,
		healthpb.Health_Check_FullMethodName: true,
	}
	icpts := []grpc.UnaryServerInterceptor{middleware.Auth(svc, open)}
	if rl != nil {
		icpts = append([]grpc.UnaryServerInterceptor{
			middleware.RateLimit(rl, map[string]bool{method("Login"): true}),
		}, icpts...)
	}
	srv := grpc.NewServer(append(opts, grpc.ChainUnaryInterceptor(icpts...))...)
	srv.RegisterService(&ServiceDesc, &Server{svc: svc})

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	checkHealth(ctx, svc, hs)
	go watchHealth(ctx, svc, hs)
	return srv
}

func checkHealth(ctx context.Context, svc *service.Service, hs *health.Server) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	st := healthpb.HealthCheckResponse_SERVING
	if err := svc.Ping(ctx); err != nil {
		log.Printf("[gRPC] health: store ping failed: %v", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
}

func watchHealth(ctx context.Context, svc *service.Service, hs *health.Server) {
	t := time.NewTicker(HealthInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			checkHealth(ctx, svc, hs)
		}
	}
}

// ----- auth -----

func (s *Server) Login(ctx context.Context, in *service.Credentials) (*service.LoginResult, error) {
	return s.svc.Login(ctx, *in)
}

func (s *Server) PatternStatus(ctx context.Context, _ *Empty) (*PatternStatusResponse, error) {
	ok, err := s.svc.PatternStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &PatternStatusResponse{HasPattern: ok}, nil
}

func (s *Server) SetupPattern(ctx context.Context, in *SetupPatternRequest) (*MessageResponse, error) {
	if err := s.svc.SetupPattern(ctx, in.Pattern); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Pattern setup successful"}, nil
}

// ----- appointment types -----

func (s *Server) CreateAppointmentType(ctx context.Context, in *service.TypeInput) (*model.AppointmentType, error) {
	return s.svc.CreateType(ctx, *in)
}

func (s *Server) ListAppointmentTypes(ctx context.Context, _ *Empty) (*TypeList, error) {
	ts, err := s.svc.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	return &TypeList{Types: ts}, nil
}

func (s *Server) UpdateAppointmentType(ctx context.Context, in *UpdateTypeRequest) (*model.AppointmentType, error) {
	return s.svc.UpdateType(ctx, in.ID, in.TypePatch)
}

func (s *Server) DeleteAppointmentType(ctx context.Context, in *IDRequest) (*MessageResponse, error) {
	if err := s.svc.DeleteType(ctx, in.ID); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Appointment type deleted successfully"}, nil
}

// ----- appointments -----

func (s *Server) CreateAppointment(ctx context.Context, in *service.AppointmentInput) (*model.Appointment, error) {
	return s.svc.CreateAppointment(ctx, *in)
}

func (s *Server) ListAppointments(ctx context.Context, in *ListAppointmentsRequest) (*AppointmentList, error) {
	as, err := s.svc.ListAppointments(ctx, model.AppointmentFilter{
		Status:            in.Status,
		ClientName:        in.ClientName,
		DatePrefix:        in.Date,
		AppointmentTypeID: in.AppointmentTypeID,
	})
	if err != nil {
		return nil, err
	}
	return &AppointmentList{Appointments: as}, nil
}

func (s *Server) GetAppointment(ctx context.Context, in *IDRequest) (*model.Appointment, error) {
	return s.svc.GetAppointment(ctx, in.ID)
}

func (s *Server) UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest) (*model.Appointment, error) {
	return s.svc.UpdateAppointment(ctx, in.ID, in.AppointmentPatch)
}

func (s *Server) DeleteAppointment(ctx context.Context, in *IDRequest) (*MessageResponse, error) {
	if err := s.svc.DeleteAppointment(ctx, in.ID); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Appointment deleted successfully"}, nil
}

// ----- income and sms -----

func (s *Server) IncomeStats(ctx context.Context, in *IncomeRequest) (*model.IncomeStats, error) {
	return s.svc.IncomeStats(ctx, in.filter())
}

func (s *Server) IncomeReport(ctx context.Context, in *IncomeRequest) (*ReportResponse, error) {
	b, name, err := s.svc.IncomeReport(ctx, in.filter())
	if err != nil {
		return nil, err
	}
	return &ReportResponse{Filename: name, PDF: b}, nil
}

func (s *Server) RenderSMS(ctx context.Context, in *IDRequest) (*SMSResponse, error) {
	text, err := s.svc.RenderSMS(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &SMSResponse{SMS: text}, nil
}

func (s *Server) GetSMSTemplate(ctx context.Context, _ *Empty) (*model.SMSTemplate, error) {
	return s.svc.SMSTemplate(ctx)
}

func (s *Server) SaveSMSTemplate(ctx context.Context, in *model.SMSTemplate) (*model.SMSTemplate, error) {
	return s.svc.SaveSMSTemplate(ctx, *in)
}
