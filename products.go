package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// newProductsCmd lists public Octopus product codes, for finding the current Agile code.
func newProductsCmd() *cobra.Command {
	var filter, apiKey string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List Octopus product codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := NewOctopusService(http.DefaultTransport, apiKey)
			codes, err := svc.ListProducts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(codes) == 0 {
				return fmt.Errorf("no product codes matching %q", filter)
			}
			for _, c := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "AGILE", "only list codes containing this text")
	cmd.Flags().StringVar(&apiKey, "apikey", "", "Octopus API key (optional)")
	return cmd
}
