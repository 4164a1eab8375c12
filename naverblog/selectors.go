package naverblog

// 博客页面选择器集中定义，页面改版时只需要改这里（或用 selectors.yaml 覆盖）

// SuccessMarkers 互邻申请成功后页面上会出现的提示
var SuccessMarkers = []string{
	"서로이웃 신청이 완료",
	"서로이웃을 신청했습니다",
	"서로이웃 신청을 보냈습니다",
	"서로이웃이 되었습니다",
	"서로이웃 추가 완료",
}

// DefaultStrategies 内置策略表，每次调用返回新的拷贝
func DefaultStrategies() StrategyTable {
	return StrategyTable{
		RoleNeighborAddButton: {
			{Name: "neighbor-class", CSS: `.btn_neighbor, .neighbor_btn, a[class*="btn_buddy"], button[class*="btn_buddy"]`},
			{Name: "neighbor-href", CSS: `a[href*="BuddyAdd"], a[href*="neighbor"]`},
			{Name: "neighbor-onclick", CSS: `button[onclick*="neighbor"], a[onclick*="Buddy"]`},
			{Name: "neighbor-label", CSS: `button, a`, Keywords: []string{"이웃추가", "이웃 추가"}, Exclude: []string{"서로이웃"}},
			{Name: "neighbor-span", CSS: `span`, Keywords: []string{"이웃추가"}, Closest: "*[self::a or self::button]"},
		},
		RoleMutualNeighborToggle: {
			{Name: "both-buddy-label", CSS: `label[for="bothBuddyRadio"]`},
			{Name: "both-buddy-input", CSS: `input#bothBuddyRadio, input[name*="bothBuddy"], input[type="radio"][id*="bothBuddy"]`},
			{Name: "both-buddy-label-fuzzy", CSS: `label[for*="bothBuddy"]`},
			{Name: "mutual-class", CSS: `.btn_mutual, .mutual_neighbor_btn, button[class*="mutual"]`},
			{Name: "mutual-text", CSS: `label, button, a`, Keywords: []string{"서로이웃을 신청합니다", "서로이웃", "서로 이웃"}, Attrs: []string{"title", "aria-label", "for"}},
		},
		RolePlainNeighborToggle: {
			{Name: "oneway-buddy-label", CSS: `label[for="onewayBuddyRadio"]`},
			{Name: "oneway-buddy-input", CSS: `input#onewayBuddyRadio, input[type="radio"][id*="onewayBuddy"]`},
			{Name: "plain-text", CSS: `label`, Keywords: []string{"이웃으로 추가합니다"}, Exclude: []string{"서로이웃"}},
		},
		RoleNeighborMessageInput: {
			{Name: "message-id", CSS: `textarea#message, textarea[name="message"]`},
			{Name: "message-class", CSS: `textarea[class*="message"], textarea[class*="txt"]`},
			{Name: "message-any", CSS: `textarea`},
		},
		RoleConfirmButton: {
			{Name: "btn-ok", CSS: `a.btn_ok, a[class*="btn_ok"], button.btn_ok, button[class*="btn_ok"]`},
			{Name: "btn-confirm", CSS: `.btn_confirm, .btn_complete, button[class*="confirm"]`},
			{Name: "confirm-attr", CSS: `button[title*="확인"], button[aria-label*="확인"], button[title*="완료"]`},
			{Name: "confirm-text", CSS: `a, button`, Keywords: []string{"확인", "완료", "OK"}},
			{Name: "confirm-span", CSS: `span`, Keywords: []string{"확인"}, Closest: "*[self::a or self::button]"},
		},
		RoleLikeToggle: {
			{Name: "likeit-face", CSS: `a[class*="u_likeit_button"][class*="_face"]`},
			{Name: "likeit-button", CSS: `a[class*="u_likeit_button"]`},
			{Name: "likeit-module", CSS: `div[class*="u_likeit_list_module"] a[class*="u_likeit_button"]`},
			{Name: "likeit-role", CSS: `a[role="button"][aria-haspopup="true"][class*="u_likeit"]`},
			{Name: "likeit-xpath", XPath: `//a[contains(@class, 'u_likeit_button') or (@data-type='like' and contains(@class, 'u_likeit'))]`},
			{Name: "like-aria", CSS: `button[aria-label*="공감"], a[aria-label*="공감"], button[title*="공감"], a[title*="공감"]`},
			{Name: "like-text", CSS: `button, a`, Keywords: []string{"공감"}, Attrs: []string{"title", "aria-label", "class"}, Exclude: []string{"공감한 사람"}},
		},
		RoleLikeReactionOption: {
			{Name: "likeit-list-like", CSS: `li[class*="u_likeit_list"][class*="like"] a`},
			{Name: "likeit-list-type", CSS: `a[class*="u_likeit_list_button"][data-type="like"]`},
			{Name: "likeit-role-type", CSS: `a[role="button"][data-type="like"][class*="u_likeit"]`},
		},
		RolePopupContainer: {
			{Name: "layer-popup", CSS: `div[class*="layer_popup"], div[class*="popup"], div[role="dialog"], div[role="alertdialog"]`},
			{Name: "alert", CSS: `div[class*="alert"], div[class*="modal"], div[class*="dialog"]`},
		},
		RoleDismissPopupButton: {
			{Name: "popup-confirm", Anchor: RolePopupContainer, CSS: `button[class*="confirm"], a[class*="confirm"], button[class*="ok"], a.btn_ok`},
			{Name: "popup-confirm-text", Anchor: RolePopupContainer, CSS: `button, a`, Keywords: []string{"확인", "닫기", "OK"}},
			{Name: "popup-close", Anchor: RolePopupContainer, CSS: `button[class*="close"], a[class*="close"]`},
		},
		RoleCommentOpenButton: {
			{Name: "btn-comment", CSS: `a.btn_comment, a[class*="btn_comment"], button[class*="btn_comment"]`},
			{Name: "comment-href", CSS: `a[href*="CommentList"], a[href*="comment"]`},
			{Name: "comment-text", CSS: `a, button`, Keywords: []string{"댓글"}, Exclude: []string{"댓글쓰기 권한"}},
		},
		RoleCommentList: {
			{Name: "cbox-list", CSS: `ul.u_cbox_list, div.u_cbox_content_wrap`},
			{Name: "comment-list", CSS: `[class*="comment_list"], [class*="CommentList"]`},
		},
		RoleOwnCommentControl: {
			{Name: "cbox-mine", Anchor: RoleCommentList, CSS: `li.u_cbox_comment.u_cbox_mine .u_cbox_btn_edit, li.u_cbox_comment.u_cbox_mine .u_cbox_btn_delete`},
			{Name: "cbox-edit-delete", Anchor: RoleCommentList, CSS: `a.u_cbox_btn_edit, a.u_cbox_btn_delete, a[class*="u_cbox_btn_del"], button[class*="u_cbox_btn_edit"]`},
			{Name: "own-text", Anchor: RoleCommentList, CSS: `a, button`, Keywords: []string{"수정", "삭제"}},
		},
		RoleCommentInputArea: {
			{Name: "cbox-guide", CSS: `label.u_cbox_guide, div.u_cbox_inbox, div.u_cbox_write_area`},
			{Name: "comment-placeholder", CSS: `[placeholder*="댓글"], [data-placeholder*="댓글"]`},
		},
		RoleCommentEditor: {
			{Name: "cbox-text", CSS: `div.u_cbox_text[contenteditable="true"], textarea.u_cbox_text`},
			{Name: "contenteditable", CSS: `[contenteditable="true"]`},
			{Name: "comment-textarea", CSS: `textarea[placeholder*="댓글"], textarea[class*="comment"]`},
		},
		RoleCommentSubmitButton: {
			{Name: "cbox-upload", CSS: `button.u_cbox_btn_upload, button[class*="u_cbox_btn_upload"]`},
			{Name: "comment-submit", CSS: `button[type="submit"][class*="comment"], button[class*="btn_register"]`},
			{Name: "submit-text", CSS: `button, a`, Keywords: []string{"등록"}},
		},
	}
}
