package main

import (
	"farescan/cmd/farescan/commands"
	"farescan/lib/telemetry"
	"farescan/lib/util/serviceutil"
)

func main() {
	telemetry.InitSlog(telemetry.DebugFromEnv())

	err := commands.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("farescan failed", err)
	}
}
