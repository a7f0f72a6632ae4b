// Package hash provides stable hashing for partition assignment.
//
// # CRC32-Castagnoli (CRC32C)
//
// Partition assignment uses CRC32-Castagnoli, which is hardware accelerated
// on x86 (SSE4.2) and ARM (CRC extension). Unlike maphash it is not seeded,
// so a database name maps to the same partition in every process and for
// the whole lifetime of a process.
//
// # Usage
//
//	part := hash.Partition("_system", 8)
package hash
