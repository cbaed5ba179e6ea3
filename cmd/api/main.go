// @title           Contract Analysis API
// @version         1.0
// @description     This API analyzes contracts asynchronously: upload a document with a query, then poll the job status.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ContractAPI/internal/bootstrap"
	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/domain/jobModel"
	"github.com/akolanti/ContractAPI/internal/handlers"
	"github.com/akolanti/ContractAPI/internal/job"
	"github.com/akolanti/ContractAPI/internal/server"
	"github.com/akolanti/ContractAPI/internal/worker"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
)

var (
	listenAddr        string
	configPath        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	flag.StringVar(&configPath, "config", "contracts.yaml", "path to the YAML config file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides the config")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		logger_i.NewLogger("main").Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	config.SetCurrent(settings)
	logger_i.Init(settings)
	logger := logger_i.NewLogger("main")

	if listenAddr == "" {
		listenAddr = settings.Server.ListenAddr
	}

	//init buffered job channel
	jobChannel := make(chan jobModel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          bootstrap.NewJobStore(serviceContext, settings.Redis),
	})

	components, err := bootstrap.Build(serviceContext, settings, nil)
	if err != nil {
		logger.Error("One or more external services failed to initialize. Shutting down.", "error", err)
		return
	}

	handlers.InitJobHandler(service, components.Service)

	//init worker pool
	worker.InitServices(service, components.Service)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	})
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
