/*
Package session serializes access to stored calculator sessions.

The reducer is pure and single-threaded; hosts that serve many clients wrap
every read-modify-write of a session in Manager.Apply. A reference-counted
mutex per session ID covers one process, and an optional ports.DistributedLocker
(Redis in production) covers several replicas sharing one store.
*/
package session
