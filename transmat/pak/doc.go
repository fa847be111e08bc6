/*
	Pack and unpack PACK archives.

	Pack walks a directory (or any fs.FS, such as a git tree) in sorted order
	and writes every regular file into one archive; Unpack reads an archive's
	table and places each entry's bytes under an output directory.
	List and Verify read archives without writing anything.

	All operations report through a pak.Monitor and return errors
	categorized with pak.ErrorCategory.
*/
package paktrans
