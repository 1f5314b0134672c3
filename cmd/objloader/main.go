// objloader is the shared library that exposes the OBJ loader to C and C++
// callers. Build it with
//
//	go build -buildmode=c-shared -o libobjloader.so ./cmd/objloader
//
// and include include/obj_loader.h. Every buffer returned by load_obj is
// allocated with malloc and released through the matching free_* function.
//
// The library reads its logging settings from OBJLOADER_CONFIG,
// OBJLOADER_LOG_LEVEL and OBJLOADER_LOG_FILE on the first load.
package main

// main is required by -buildmode=c-shared and never runs.
func main() {}
