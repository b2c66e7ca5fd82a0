package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:           "sales-forecast",
	Long:          "Executa o pipeline de previsão de vendas fora da API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	Cmd.AddCommand(runCmd, hashPasswordCmd)

	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
