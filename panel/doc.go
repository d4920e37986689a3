// Package panel defines the immutable configuration of one live graph.
//
// A Panel is built from defaults plus any number of Options layers
// (registry entry, then command-line flags). Every configuration error
// surfaces from New or Reconfigure, never while rendering.
//
// The value source is a closed variant: Command, RandomUniform, Custom or
// Serial. ValueProvider resolves it into a Provider that never fails; any
// acquisition error degrades to 0.0.
package panel
