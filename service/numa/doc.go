// Package numa answers the locality questions the scheduler needs: how many
// nodes the platform has, how far apart two nodes are and which node the
// calling thread runs on.  It also keeps the locality map that redirects a
// node without provisioned contexts to its nearest provisioned neighbour.
package numa
