// Package supplier defines the adapter contract for external product
// catalogs and the registry that maps supplier names to adapter instances.
// Concrete adapters live in subpackages and are registered at process start.
package supplier
