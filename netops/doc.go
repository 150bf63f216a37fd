// Package netops holds the typed pass-through clients for the dashboard's
// data plane: flow statistics, anomaly and attack reports, ACL and
// rate-limit management, SDN flow tables, and the AI agent. Every call rides
// the shared transport, attaching the session's bearer token; a 401 anywhere
// tears the session down through the same hook the auth calls use.
//
// Queries return the backend's JSON body as-is for the view layer to render;
// mutations decode the uniform {success, message} envelope. No client here
// owns state or retries.
package netops
