// main is the entry point for the trendscope CLI.
package main

import (
	"github.com/huangsam/trendscope/cmd"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("trendscope failed", err)
	}
}
