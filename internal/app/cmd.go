package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はWebサーバーとして起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はスキーママイグレーションのみ実行して終了することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は稼働中サーバーへのヘルスチェックを実行することを示す。
	// curlのないdistrolessイメージのHEALTHCHECKから使う。
	CommandHealthcheck Command = "healthcheck"
)

var knownCommands = map[string]Command{
	"serve":       CommandServe,
	"migrate":     CommandMigrate,
	"healthcheck": CommandHealthcheck,
}

// ParseCommand は先頭の引数をサブコマンドとして解釈する。
// 引数なし・未知のコマンドはCommandServeにフォールバックし、
// 2つ目以降の引数は無視する。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}
	if cmd, ok := knownCommands[args[0]]; ok {
		return cmd
	}
	return CommandServe
}
