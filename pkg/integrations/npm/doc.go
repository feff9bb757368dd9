// Package npm resolves package versions against the npm registry.
//
// # Overview
//
// The registry serves one manifest per version at {registry}/{name}/{version};
// dist-tags such as "latest" and semver ranges are accepted in place of a
// version and resolved by the registry itself.
//
// # Usage
//
//	http := integrations.NewClient(integrations.Config{})
//	client := npm.NewClient(http, npm.DefaultRegistry)
//
//	res := client.Resolve(ctx, "@babel/core", "7.0.0")
//	if res.Status != dependents.Resolved {
//	    log.Printf("cannot resolve: %v", res.Err)
//	}
//	fmt.Println(res.Package.Version, res.Package.UnpackedSize)
//
// # Fields
//
// Only the fields needed for dependent reports are decoded: name, version,
// homepage and dist.unpackedSize. Old manifests without unpackedSize resolve
// with a size of zero.
package npm
