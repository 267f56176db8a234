// Package chains provisions the status clients of the resolver from configuration.
//
// LoadRegistry builds one chain client per active network of the networks manifest, using the
// provider of the chain's family and the API credentials of the env config. Chains are loaded
// concurrently and every failure is reported in the returned error.
//
// # Usage Example
//
//	cfg, err := config.Load([]string{"networks.yaml"}, ".env.yaml")
//	if err != nil {
//		return err
//	}
//
//	loaded, err := chains.LoadRegistry(ctx, lggr, cfg)
//	if err != nil {
//		return err
//	}
//
//	resolver := txstatus.NewResolver(loaded.Registry,
//		txstatus.WithNotFoundDepths(loaded.Depths),
//		txstatus.WithLogger(lggr),
//	)
package chains
