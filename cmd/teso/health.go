package main

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/GoSim-25-26J-441/teso/internal/study"
	"github.com/GoSim-25-26J-441/teso/pkg/logger"
)

// studyService is the health service name reporting the running study
const studyService = "teso.Study"

// healthObserver flips the gRPC health status as the study starts and ends
type healthObserver struct {
	study.BaseObserver
	hs *health.Server
}

func newHealthObserver(hs *health.Server) *healthObserver {
	hs.SetServingStatus(studyService, healthpb.HealthCheckResponse_NOT_SERVING)
	return &healthObserver{hs: hs}
}

func (o *healthObserver) StudyStarted(info study.Info) {
	o.hs.SetServingStatus(studyService, healthpb.HealthCheckResponse_SERVING)
}

func (o *healthObserver) StudyFinished(res *study.Result) {
	o.hs.SetServingStatus(studyService, healthpb.HealthCheckResponse_NOT_SERVING)
}

// newHealthServer builds a gRPC server exposing the standard health service
func newHealthServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return srv, hs
}

func serveHealth(lis net.Listener, srv *grpc.Server) {
	go func() {
		logger.Info("gRPC health server listening", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			logger.Error("gRPC server error", "error", err)
		}
	}()
}
