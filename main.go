package main

import (
	"dataclean-service/api"
	"dataclean-service/logger"
	"log"
	"net/http"
	"os"
	"strconv"

	_ "dataclean-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PORT         = 80
	BASE_CONTEXT = ""
)

func init() {
	if val := os.Getenv("LISTEN_PORT"); val != "" {
		PORT, _ = strconv.Atoi(val)
	}

	if val := os.Getenv("BASE_CONTEXT"); val != "" {
		BASE_CONTEXT = val
	}
}

// 数据清洗服务，提供表格数据的校验、标准化、缺失值处理、敏感数据脱敏、
// 特征提取和质量评估能力
func main() {
	logger.InitLogger()

	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if BASE_CONTEXT != "" {
		mux.Route(BASE_CONTEXT, func(r chi.Router) {
			subMux := r.(*chi.Mux)
			api.InitRoute(subMux)
			r.Handle("/metrics", promhttp.Handler())
		})
	} else {
		api.InitRoute(mux)
		mux.Handle("/metrics", promhttp.Handler())
	}

	if err := http.ListenAndServe(":"+strconv.Itoa(PORT), mux); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error: %v", err)
	}
}
