// Package live owns the client's persistent WebSocket connection.
//
// The connection is an explicit resource keyed by (user id, token). Manager
// keeps at most one of them: Ensure tears the current connection down before
// opening one for a different key, and Close releases it. Inbound frames are
// decoded into models.Message and delivered on the Events channel; frames
// from a connection that has already been replaced are dropped.
//
// State machine:
//
//	idle --Ensure--> connecting --dial ok--> open --read error--> closed
//	  ^                  |                     |                     |
//	  +------Close-------+--------Close--------+--------Close--------+
package live
