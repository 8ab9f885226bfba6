// Package memory provides functionality for finding, following, and
// writing values in the memory of another process.
//
// Locating a value
//
// Code that touches a global variable usually does so with a RIP-relative
// instruction. For example:
//
//	48 8b 05 xx xx xx xx    mov rax, qword ptr [rip+disp32]
//
// The displacement is relative to the address of the next instruction.
// The instruction bytes around the displacement rarely change between
// builds of a program, so a signature with the displacement wildcarded
// (see the pattern package) can find the instruction in a snapshot of
// the program's module. Region.Locate performs that search, and Resolver
// follows the displacement to the global, which is itself a pointer to
// a managing structure. The global may still be zero at scan time if the
// program has not finished initializing, so Resolver polls it.
//
// Writing a value
//
// The final address is represented as a Cell. A Cell is either resolved
// or not, and CellWriter refuses to write to an unresolved Cell. Writes
// are plain stores into memory the owning process also reads and writes
// on its own schedule. No synchronization with that process is possible.
package memory
