package main

import (
	"log"

	"github.com/ory/graceful"
	flag "github.com/spf13/pflag"

	"github.com/gmboard/gmboard/cmd/dashboard/controller"
	"github.com/gmboard/gmboard/service/singleton"
)

type dashboardCliParam struct {
	Version    bool
	ConfigFile string
}

var dashboardCli dashboardCliParam

func init() {
	flag.BoolVarP(&dashboardCli.Version, "version", "v", false, "查看当前版本号")
	flag.StringVarP(&dashboardCli.ConfigFile, "config", "c", "data/config.yaml", "配置文件路径")
	flag.Parse()

	if dashboardCli.Version {
		log.Println(singleton.Version)
		return
	}

	singleton.Init()
	singleton.InitConfigFromPath(dashboardCli.ConfigFile)
	singleton.InitDBFromDSN(singleton.Conf.Database.DSN)
	singleton.LoadData()
}

func main() {
	if dashboardCli.Version {
		return
	}

	srv, err := controller.ServeWeb()
	if err != nil {
		log.Fatalf("GMB>> init web server failed: %v", err)
	}

	log.Printf("GMB>> dashboard %s listening on %s", singleton.Version, singleton.Conf.Listen)
	if err := graceful.Graceful(srv.ListenAndServe, srv.Shutdown); err != nil {
		log.Fatalf("GMB>> serve failed: %v", err)
	}
}
