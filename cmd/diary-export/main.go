package main

import (
	"diary-export/cmd/diary-export/commands"
	"diary-export/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
