// Command heapctl exercises, verifies and reports on a kheap heap.
package main

func main() {
	execute()
}
