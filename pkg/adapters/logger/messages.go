package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration
		"Starting pipeline":               "パイプラインを開始します",
		"Pipeline completed successfully": "パイプラインが正常に完了しました",
		"Extracting frames from %s":       "%s からフレームを抽出中",
		"Extracted %d frames in %d ms":    "%d フレームを %d ms で抽出しました",
		"No frames extracted from %s":     "%s からフレームを抽出できませんでした",
		"Writing output to %s":            "%s へ出力を書き込み中",

		// Extraction
		"Extracting frames from %s with the %s backend": "%s から %s バックエンドでフレームを抽出中",
		"Video metadata available after %d polls":       "%d 回のポーリングで動画メタデータを取得しました",
		"Video ready: %.3f s, aspect ratio %.4f":        "動画の準備完了: %.3f 秒, アスペクト比 %.4f",
		"Resolved plan: %d frames, %.0fx%.0f %s":        "サンプリング計画: %d フレーム, %.0fx%.0f %s",
		"Captured frame %d/%d at %.3f s":                "フレーム %d/%d を %.3f 秒でキャプチャしました",
		"Captured %d frames in %d ms":                   "%d フレームを %d ms でキャプチャしました",
		"Video source failed, no frames extracted: %s":  "動画ソースが失敗したためフレームを抽出できませんでした: %s",

		// Video sources
		"Opening video %s":                         "動画 %s を開いています",
		"Fetched %d bytes from %s":                 "%d バイトを %s から取得しました",
		"Loaded %s video %dx%d, %.3f s, %d frames": "%s 動画を読み込みました %dx%d, %.3f 秒, %d フレーム",
		"Video page ready":                         "動画ページの準備ができました",
		"Video element error: %s":                  "動画要素のエラー: %s",
		"Video source error: %v":                   "動画ソースのエラー: %v",
		"Seek to %v: %v":                           "%v へのシークに失敗しました: %v",
		"Read video state: %v":                     "動画の状態の取得に失敗しました: %v",
		"Resize canvas: %v":                        "キャンバスのリサイズに失敗しました: %v",
		"Clear canvas: %v":                         "キャンバスのクリアに失敗しました: %v",

		// Sprite
		"Calculating sprite layout":                   "スプライトのレイアウトを計算中",
		"Layout calculated: %dx%d canvas, %d columns": "レイアウト計算完了: %dx%d キャンバス, %d カラム",
		"Composing sprite from %d frames":             "%d フレームからスプライトを合成中",
		"Decoding %d frames with %d workers":          "%d フレームを %d ワーカーでデコード中",
		"Sprite composed":                             "スプライトを合成しました",
		"Sprite composed: %dx%d, %d bytes":            "スプライト合成完了: %dx%d, %d バイト",

		// Export
		"Wrote %s (%d bytes)": "%s を書き込みました (%d バイト)",

		// Debug sink
		"Save plan: %v":           "計画の保存に失敗しました: %v",
		"Save debug frame %d: %v": "デバッグフレーム %d の保存に失敗しました: %v",
		"Skip debug frame %d: %v": "デバッグフレーム %d をスキップしました: %v",
		"Save debug sprite: %v":   "デバッグスプライトの保存に失敗しました: %v",

		// Errors
		"Failed to extract frames: %s":   "フレームの抽出に失敗しました: %s",
		"Failed to calculate layout: %s": "レイアウトの計算に失敗しました: %s",
		"Failed to compose sprite: %s":   "スプライトの合成に失敗しました: %s",
		"Failed to write output: %s":     "出力の書き込みに失敗しました: %s",
	})
}
