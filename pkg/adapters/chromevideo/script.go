package chromevideo

import (
	"encoding/json"
	"fmt"
)

// setupScript creates the page-side helpers. Every call returns plain JSON
// values so results survive CDP serialization.
func setupScript(crossOrigin string) string {
	mode, _ := json.Marshal(crossOrigin)
	return fmt.Sprintf(`(() => {
	const video = document.createElement('video');
	const canvas = document.createElement('canvas');
	video.muted = true;
	video.preload = 'auto';
	video.crossOrigin = %s;
	document.body.appendChild(video);
	document.body.appendChild(canvas);

	video.addEventListener('seeked', () => %s(''));
	video.addEventListener('error', () => {
		const err = video.error;
		%s(err ? (err.message || ('media error ' + err.code)) : 'unknown media error');
	});

	const ctx = canvas.getContext('2d');

	window.__framesnap = {
		assign(src) {
			video.src = src;
			video.load();
		},
		seek(t) {
			video.currentTime = t;
		},
		state() {
			const d = video.duration;
			return {
				duration: Number.isFinite(d) ? d : 0,
				known: Number.isFinite(d),
				infinite: d === Infinity,
				currentTime: video.currentTime,
				seeking: video.seeking,
				width: video.videoWidth,
				height: video.videoHeight,
				readyState: video.readyState,
			};
		},
		resize(w, h) {
			canvas.width = w;
			canvas.height = h;
		},
		clear() {
			ctx.clearRect(0, 0, canvas.width, canvas.height);
		},
		draw(x, y, w, h) {
			ctx.drawImage(video, x, y, w, h);
		},
		encode(type) {
			return canvas.toDataURL(type);
		},
		reset() {
			video.removeAttribute('src');
			video.load();
		},
	};
})()`, mode, seekedBinding, errorBinding)
}
