package pagectx

// domWalkScript is the in-page function passed to browser_evaluate to
// obtain DOM Elements (spec §4.C.1). It selects elements that carry a
// role, are natively interactive, carry an id/test-id attribute, or are
// a visible container with content, and emits the full attribute bag
// plus a computed isDynamic flag and dynamicType classification.
const domWalkScript = `() => {
  const isVisible = (el) => {
    const r = el.getBoundingClientRect();
    return r.width > 0 && r.height > 0;
  };
  const testIdAttrs = ['data-testid', 'data-cy', 'data-qa'];
  const dynamicAttrs = ['data-testid', 'data-cy', 'data-qa', 'aria-live', 'onclick', 'onchange'];
  const interactiveTags = ['input', 'button', 'select', 'textarea', 'a', 'form'];
  const containerTags = ['div', 'span', 'section', 'article', 'aside', 'main', 'nav', 'header', 'footer'];

  const hasTestId = (el) => testIdAttrs.some((a) => el.hasAttribute(a));
  const isContainerWithContent = (el) => {
    const tag = el.tagName.toLowerCase();
    if (!containerTags.includes(tag)) return false;
    return (el.textContent || '').trim().length > 0 || el.children.length > 0;
  };

  const out = [];
  document.querySelectorAll('*').forEach((el) => {
    const tag = el.tagName.toLowerCase();
    const qualifies =
      el.hasAttribute('role') ||
      interactiveTags.includes(tag) ||
      el.hasAttribute('id') ||
      hasTestId(el) ||
      (isContainerWithContent(el) && isVisible(el));
    if (!qualifies) return;

    const isDynamic = dynamicAttrs.some((a) => el.hasAttribute(a));
    let dynamicType = 'standard';
    if (el.hasAttribute('aria-live')) dynamicType = 'live-region';
    else if (el.hasAttribute('onclick') || el.hasAttribute('onchange')) dynamicType = 'interactive';
    else if (hasTestId(el)) dynamicType = 'test-target';

    const rect = el.getBoundingClientRect();
    out.push({
      tagName: tag,
      type: el.getAttribute('type') || '',
      id: el.id || '',
      name: el.getAttribute('name') || '',
      className: el.className && el.className.toString ? el.className.toString() : '',
      placeholder: el.getAttribute('placeholder') || '',
      value: el.value || '',
      textContent: (el.textContent || '').trim().slice(0, 200),
      innerText: (el.innerText || '').trim().slice(0, 200),
      ariaLabel: el.getAttribute('aria-label') || '',
      role: el.getAttribute('role') || '',
      'data-testid': el.getAttribute('data-testid') || '',
      'data-cy': el.getAttribute('data-cy') || '',
      'data-qa': el.getAttribute('data-qa') || '',
      title: el.getAttribute('title') || '',
      alt: el.getAttribute('alt') || '',
      disabled: !!el.disabled,
      required: !!el.required,
      readonly: !!el.readOnly,
      checked: !!el.checked,
      boundingBox: { x: rect.x, y: rect.y, w: rect.width, h: rect.height },
      isDynamic,
      dynamicType,
    });
  });
  return out;
}`

// pageInfoScript returns the minimal page identity (spec §4.C step 6).
const pageInfoScript = `() => ({ url: location.href, title: document.title })`
