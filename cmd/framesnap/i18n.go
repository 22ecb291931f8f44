// Package main provides localization for the framesnap CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":       "出力先",
		"Sampling":     "サンプリング",
		"Video Source": "動画ソース",
		"Sprite Sheet": "スプライトシート",
		"Debug":        "デバッグ",
		"Logging":      "ログ",

		// Root command
		"Extract still frames from videos": "動画から静止画フレームを抽出",
		"framesnap samples frames from a video at computed or explicit timestamps and saves them as images, a sprite sheet and a JSON manifest.": "framesnapは計算または指定したタイムスタンプで動画からフレームを抽出し、画像、スプライトシート、JSONマニフェストとして保存します。",

		// Extract command
		"Extract frames from a video": "動画からフレームを抽出",
		"Sample frames from the video at the given locator (path, file://, http(s):// or s3://) and write them to the output directory.": "指定した場所（パス、file://、http(s)://、s3://）の動画からフレームを抽出し、出力ディレクトリに書き込みます。",

		// Probe command
		"Show video and decoder information": "動画とデコーダーの情報を表示",
		"Read the container of an MP4 video and report its codec, duration and size, and which backends can decode it.": "MP4動画のコンテナを読み取り、コーデック、再生時間、サイズ、利用可能なバックエンドを表示します。",

		// Version command
		"Show version information":          "バージョン情報を表示",
		"Display the version of framesnap.": "framesnapのバージョンを表示します。",
		"framesnap version %s":              "framesnap バージョン %s",

		// Output flags
		"Output directory or s3://bucket/prefix (frames are printed as JSON when omitted)": "出力ディレクトリまたは s3://バケット/プレフィックス（省略時はフレームをJSONで出力）",
		"Failed to close video backend: %s":                                                "動画バックエンドの終了に失敗しました: %s",
		"Write a run summary to a file (Markdown, or JSON for .json)":                      "実行サマリーをファイルに出力（Markdown形式、.json の場合はJSON）",
		"Job file in YAML format":                                                          "YAML形式のジョブファイル",

		// Sampling flags
		"Number of evenly spaced frames":                   "等間隔に抽出するフレーム数",
		"Start of the sampling window in seconds":          "抽出範囲の開始秒",
		"End of the sampling window in seconds":            "抽出範囲の終了秒",
		"Explicit timestamps in seconds (comma separated)": "抽出するタイムスタンプ（秒、カンマ区切り）",
		"Frame width in pixels":                            "フレームの幅（ピクセル）",
		"Frame height in pixels":                           "フレームの高さ（ピクセル）",
		"Image media type (e.g., image/png, image/jpeg)":   "画像のメディアタイプ（例: image/png, image/jpeg）",

		// Source flags
		"Video backend (mp4, chrome)":                 "動画バックエンド（mp4, chrome）",
		"Path to Chrome executable":                   "Chrome実行ファイルのパス",
		"Run browser in non-headless mode":            "ブラウザを非ヘッドレスモードで実行",
		"User agent of the browser":                   "ブラウザのユーザーエージェント",
		"HTTP proxy server (e.g., http://proxy:8080)": "HTTPプロキシサーバー（例: http://proxy:8080）",
		"Ignore HTTPS certificate errors":             "HTTPS証明書エラーを無視",
		"Extraction timeout in seconds (0 = none)":    "抽出のタイムアウト秒数（0 = なし）",

		// Sprite flags
		"Compose a sprite sheet of the frames":     "フレームのスプライトシートを作成",
		"Sprite file name in the output directory": "出力ディレクトリ内のスプライトのファイル名",
		"Sprite image format (png, jpeg)":          "スプライトの画像形式（png, jpeg）",
		"JPEG quality (1-100)":                     "JPEG品質（1-100）",
		"Number of columns (min: 1)":               "カラム数（最小: 1）",
		"Gap between cells in pixels":              "セル間の隙間（ピクセル）",
		"Padding around the sheet in pixels":       "シート周囲の余白（ピクセル）",
		"Border width in pixels":                   "枠線の幅（ピクセル）",
		"Print the timestamp under each frame":     "各フレームの下にタイムスタンプを表示",
		"TrueType font for labels":                 "ラベル用のTrueTypeフォント",
		"Background color (hex, e.g., #1a1a2e)":    "背景色（16進数、例: #1a1a2e）",
		"Border color (hex, e.g., #333355)":        "枠線の色（16進数、例: #333355）",
		"Label color (hex, e.g., #ffffff)":         "ラベルの色（16進数、例: #ffffff）",
		"Number of decode workers":                 "デコードのワーカー数",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Output saved to %s":            "出力を %s に保存しました",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Error messages
		"URL argument is required":   "URL引数が必要です",
		"--sprite requires --output": "--sprite には --output が必要です",

		// Probe output
		"Locator":        "場所",
		"Codec":          "コーデック",
		"Samples":        "サンプル数",
		"ffmpeg (H.264)": "ffmpeg (H.264)",
		"Chrome":         "Chrome",
		"available":      "利用可能",
		"not available":  "利用不可",
		"The mp4 backend cannot decode this codec; try --backend chrome.": "mp4バックエンドはこのコーデックをデコードできません。--backend chrome を試してください。",

		// Summary content
		"Extraction Summary":        "抽出サマリー",
		"Source":                    "ソース",
		"Backend":                   "バックエンド",
		"Duration":                  "再生時間",
		"Natural Size":              "元のサイズ",
		"Item":                      "項目",
		"Value":                     "値",
		"N/A":                       "該当なし",
		"Sampling Plan":             "抽出計画",
		"Mode":                      "モード",
		"Explicit offsets":          "タイムスタンプ指定",
		"Evenly spaced":             "等間隔",
		"Window":                    "範囲",
		"Interval":                  "間隔",
		"Planned Frames":            "予定フレーム数",
		"Frame Size":                "フレームサイズ",
		"Format":                    "形式",
		"Frames":                    "フレーム",
		"Offset":                    "時刻",
		"File":                      "ファイル",
		"Size":                      "サイズ",
		"No frames were extracted.": "フレームは抽出されませんでした。",
		"Directory":                 "ディレクトリ",
		"Manifest":                  "マニフェスト",
		"Sprite":                    "スプライト",
		"Total Size":                "合計サイズ",
		"Extraction Time":           "抽出時間",
		"Generated by":              "生成:",
	})
}
