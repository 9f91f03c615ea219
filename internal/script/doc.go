// Package script drives a session from Lua.
//
// Scripts run in a fresh, sandboxed gopher-lua state per call. Only the
// base, table, string and math libraries are available, plus the editing
// globals:
//
//	insert(offset, text)         insert text at offset
//	delete(offset, n)            remove n characters at offset
//	replace(offset, n, text)     replace n characters at offset with text
//	set_text(s)                  replace the whole text with s as one edit
//	undo(), redo()               return true, or false and a message
//	checkpoint()                 mark the current history position
//	undo_to(cp), redo_to(cp)     walk back or forward to a checkpoint, with
//	                             the same return values as undo and redo
//	text()                       current text
//	depths()                     past and future stack sizes
//	past(), future()             delta descriptions, most recent first
//	log(msg)                     write msg to the retext log
//
// Offsets are zero-based and count characters. Editing functions raise a
// Lua error when the edit is rejected; undo and redo report failure in
// their return values so a script can walk the history until it is empty.
package script
